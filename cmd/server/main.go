package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/catalogstudio/auth-service/internal/config"
	"github.com/catalogstudio/auth-service/internal/database"
	"github.com/catalogstudio/auth-service/internal/handler"
	"github.com/catalogstudio/auth-service/internal/mailer"
	appmw "github.com/catalogstudio/auth-service/internal/middleware"
	"github.com/catalogstudio/auth-service/internal/queue"
	"github.com/catalogstudio/auth-service/internal/repository"
	"github.com/catalogstudio/auth-service/internal/router"
	"github.com/catalogstudio/auth-service/internal/service/auth"
)

func main() {
	// .env is optional; in containers everything arrives as real env vars.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	otps := repository.NewOTPRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Notifications either go straight to SMTP or through RabbitMQ with a
	// background consumer doing the SMTP work.
	sender := mailer.NewSender(cfg)
	var notifier auth.Notifier = sender
	if cfg.NotifyViaQueue {
		notifier = queue.NewPublisher(cfg.QueueURL)
		go queue.StartEmailConsumer(cfg.QueueURL, sender)
	}

	svc := auth.New(users, otps, tokens, notifier, cfg)

	// Retention sweep: the OTP ledger is append-only, so old rows are
	// cleared on a timer instead of at verification time.
	go sweepOTPs(otps, cfg.OTPRetention)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	rate := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(svc), rate, tokens, users)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// sweepOTPs prunes ledger rows older than the retention horizon once per
// hour.  The horizon is hours where the validity window is seconds, so a
// sweep can never remove a code that could still verify.
func sweepOTPs(otps *repository.OTPRepo, retention time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := otps.PruneBefore(ctx, time.Now().Add(-retention))
		cancel()
		if err != nil {
			log.Printf("otp-sweep: prune failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("otp-sweep: pruned %d expired otp records", n)
		}
	}
}

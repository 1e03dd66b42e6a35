package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced at startup; the
// password-reset knobs fall back to the defaults the product shipped with
// (6-digit codes valid for 60 seconds, reset tokens for 15 minutes).
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	AppSecret  string // server secret mixed into reset-token signing keys
	BcryptCost int    // bcrypt cost for password hashing

	OTPTTL        time.Duration // validity window of a reset OTP from issuance
	ResetTokenTTL time.Duration // lifetime of a minted reset token
	OTPRetention  time.Duration // how long consumed/expired OTP rows are kept

	SMTPHost string // SMTP relay host
	SMTPPort string // SMTP relay port
	SMTPUser string // SMTP auth username
	SMTPPass string // SMTP auth password
	SMTPFrom string // From address on outgoing mail

	QueueURL       string // AMQP broker URL; empty disables the queue
	NotifyViaQueue bool   // publish notifications to the broker instead of sending inline
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		AppSecret:  must("APP_SECRET"),
		BcryptCost: mustInt("BCRYPT_COST"),

		OTPTTL:        envDuration("OTP_TTL", 60*time.Second),
		ResetTokenTTL: envDuration("RESET_TOKEN_TTL", 15*time.Minute),
		OTPRetention:  envDuration("OTP_RETENTION", 24*time.Hour),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: envDefault("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: envDefault("SMTP_FROM", os.Getenv("SMTP_USER")),

		QueueURL:       os.Getenv("RABBITMQ_URL"),
		NotifyViaQueue: envBoolVal("NOTIFY_VIA_QUEUE", false),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: ignoring invalid duration for %s: %q", key, v)
		return def
	}
	return d
}

func envBoolVal(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

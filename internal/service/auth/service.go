// Package auth implements the credential and password-reset workflows: the
// login/session exchange and the three-step OTP reset state machine
// (request -> verify -> confirm).  All state lives in the injected stores;
// the service itself keeps nothing between calls.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/catalogstudio/auth-service/internal/config"
	"github.com/catalogstudio/auth-service/internal/model"
	"github.com/catalogstudio/auth-service/internal/repository"
	"github.com/catalogstudio/auth-service/internal/utils"
)

// UserStore is the credential store consumed by the service.
type UserStore interface {
	Create(ctx context.Context, username, email, password, name, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	SetPassword(ctx context.Context, userID uint64, plain string, cost int) error
}

// OTPStore is the append-only one-time-code ledger.
type OTPStore interface {
	Insert(ctx context.Context, userID uint64, code string, issuedAt time.Time) error
	ConsumeLatest(ctx context.Context, userID uint64, code string, now time.Time, ttl time.Duration) error
}

// SessionStore hands out the opaque per-user session handle.
type SessionStore interface {
	GetOrCreate(ctx context.Context, userID uint64) (string, error)
}

// Notifier delivers a message to an address.  Delivery is best effort: the
// service logs failures and never lets them fail a state transition.
type Notifier interface {
	Send(to, subject, body string) error
}

// Service coordinates the stores and the notifier.  The clock is a field so
// tests can pin "now" when exercising the OTP expiry window.
type Service struct {
	users    UserStore
	otps     OTPStore
	sessions SessionStore
	notifier Notifier

	appSecret     string
	bcryptCost    int
	otpTTL        time.Duration
	resetTokenTTL time.Duration

	now func() time.Time
}

// New constructs a Service from its collaborators and server config.
func New(users UserStore, otps OTPStore, sessions SessionStore, notifier Notifier, cfg config.Config) *Service {
	return &Service{
		users:         users,
		otps:          otps,
		sessions:      sessions,
		notifier:      notifier,
		appSecret:     cfg.AppSecret,
		bcryptCost:    cfg.BcryptCost,
		otpTTL:        cfg.OTPTTL,
		resetTokenTTL: cfg.ResetTokenTTL,
		now:           time.Now,
	}
}

// Login verifies a username/password pair and returns the user's session
// handle plus profile.  Unknown usernames and wrong passwords are
// indistinguishable to the caller.  The handle is fetched-or-created, so
// concurrent logins by the same user converge on one value.
func (s *Service) Login(ctx context.Context, username, password string) (string, model.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", model.User{}, ErrMissingFields
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.User{}, ErrInvalidCredentials
		}
		return "", model.User{}, fmt.Errorf("load user: %w", err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return "", model.User{}, ErrInvalidCredentials
	}
	key, err := s.sessions.GetOrCreate(ctx, u.ID)
	if err != nil {
		return "", model.User{}, fmt.Errorf("issue session: %w", err)
	}
	return key, u, nil
}

// Register creates an account with the default editor role and sends a
// welcome email.
func (s *Service) Register(ctx context.Context, username, email, password, name string) (model.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return model.User{}, ErrMissingFields
	}
	id, err := s.users.Create(ctx, username, email, password, name, model.RoleEditor, s.bcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return model.User{}, ErrUserExists
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("load created user: %w", err)
	}

	display := u.Name
	if display == "" {
		display = u.Username
	}
	s.dispatch(u.Email, "Welcome to CatalogStudio!",
		fmt.Sprintf("<h1>Welcome, %s!</h1><p>Thanks for joining CatalogStudio. We are excited to have you on board.</p>", display))
	return u, nil
}

// RequestReset starts the reset flow for the account behind email.  The
// outcome is externally identical whether or not the account exists: an
// unknown email performs no work at all, a known one gets a fresh 6-digit
// code appended to the ledger and mailed out.  Only infrastructure errors
// are returned.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrMissingFields
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}
	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.otps.Insert(ctx, u.ID, code, s.now()); err != nil {
		return fmt.Errorf("record otp: %w", err)
	}
	s.dispatch(u.Email, "Reset Password Code - CatalogStudio",
		fmt.Sprintf("<p>Your verification code is: <strong>%s</strong></p><p>This code triggers a password reset. It is valid for <strong>%d seconds</strong>.</p>",
			code, int(s.otpTTL.Seconds())))
	return nil
}

// VerifyReset exchanges a valid (email, code) pair for the capability to
// change the password: an opaque user reference and a reset token bound to
// the current password hash.  The matched ledger record is consumed
// atomically; of N concurrent calls with the same code exactly one wins.
func (s *Service) VerifyReset(ctx context.Context, email, code string) (uid, token string, err error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return "", "", ErrMissingFields
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// An unknown email reads the same as a wrong code.
			return "", "", ErrInvalidOTP
		}
		return "", "", fmt.Errorf("load user: %w", err)
	}
	if err := s.otps.ConsumeLatest(ctx, u.ID, code, s.now(), s.otpTTL); err != nil {
		switch {
		case errors.Is(err, repository.ErrOTPNotFound):
			return "", "", ErrInvalidOTP
		case errors.Is(err, repository.ErrOTPExpired):
			return "", "", ErrOTPExpired
		}
		return "", "", fmt.Errorf("consume otp: %w", err)
	}
	token, err = utils.MintResetToken(s.appSecret, u.ID, u.PasswordHash, s.resetTokenTTL, s.now())
	if err != nil {
		return "", "", fmt.Errorf("mint reset token: %w", err)
	}
	return utils.EncodeUID(u.ID), token, nil
}

// ConfirmReset completes the flow: it resolves the opaque reference, checks
// the token against the user's current password hash, and overwrites the
// hash.  The overwrite itself revokes the token just used (and any other
// outstanding ones), so replaying the same request fails with
// ErrInvalidOrExpiredToken.
func (s *Service) ConfirmReset(ctx context.Context, uid, token, newPassword string) error {
	if strings.TrimSpace(uid) == "" || strings.TrimSpace(token) == "" || newPassword == "" {
		return ErrMissingFields
	}
	id, err := utils.DecodeUID(uid)
	if err != nil {
		return ErrInvalidLink
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidLink
		}
		return fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyResetToken(s.appSecret, u.ID, u.PasswordHash, token) {
		return ErrInvalidOrExpiredToken
	}
	if err := s.users.SetPassword(ctx, u.ID, newPassword, s.bcryptCost); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	s.dispatch(u.Email, "Password Changed Successfully",
		"Your CatalogStudio password has been updated.")
	return nil
}

// dispatch hands a message to the notifier and swallows any failure.
func (s *Service) dispatch(to, subject, body string) {
	if s.notifier == nil || to == "" {
		return
	}
	if err := s.notifier.Send(to, subject, body); err != nil {
		log.Printf("auth: notification to %s failed: %v", to, err)
	}
}

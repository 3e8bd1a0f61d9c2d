package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// Authenticator holds the credential lifecycle operations exposed to the
// transport layer.
type Authenticator interface {
	SignUp(ctx context.Context, payload SignUpPayload) (*User, error)
	SignIn(ctx context.Context, payload SignInPayload) (string, error)
	Logout(ctx context.Context, userID uuid.UUID, tokenValue string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, payload ChangePasswordPayload) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, payload ResetPasswordPayload) error
	ValidateBearerToken(ctx context.Context, tokenValue string) (AuthClaims, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetOTPTTL() time.Duration
	GetSignUpDefaultStatus() UserStatus
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// UserStore is the persistence contract the orchestrator needs for users.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// SessionStore is the revocable session registry contract.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID, tokenValue, ipAddress string) (*Session, error)
	FindActiveByToken(ctx context.Context, tokenValue string) (*Session, error)
	FindActiveByUserAndToken(ctx context.Context, userID uuid.UUID, tokenValue string) (*Session, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// OtpStore persists one time passcodes.
type OtpStore interface {
	Create(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (*OtpCode, error)
	FindValid(ctx context.Context, userID uuid.UUID, code string) (*OtpCode, error)
	Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// Notifier dispatches reset codes out of band, e.g. over email.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, email, code string) error

// SendOTP implements Notifier.
func (f NotifierFunc) SendOTP(ctx context.Context, email, code string) error {
	if f == nil {
		return nil
	}
	return f(ctx, email, code)
}

type noopNotifier struct{}

func (noopNotifier) SendOTP(context.Context, string, string) error { return nil }

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

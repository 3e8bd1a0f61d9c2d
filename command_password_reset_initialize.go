package auth

import (
	"context"
	"time"
)

// PasswordResetInitializeMessage starts a password reset for the given email.
type PasswordResetInitializeMessage struct {
	Email string `json:"email"`
}

// Type satisfies the message router contract.
func (m PasswordResetInitializeMessage) Type() string { return "auth.password_reset.initialize" }

// PasswordResetInitializeHandler generates and dispatches a reset code.
type PasswordResetInitializeHandler struct {
	auth   Authenticator
	logger Logger
}

// NewPasswordResetInitializeHandler creates the handler.
func NewPasswordResetInitializeHandler(auth Authenticator) *PasswordResetInitializeHandler {
	return &PasswordResetInitializeHandler{
		auth:   auth,
		logger: defLogger{},
	}
}

func (h *PasswordResetInitializeHandler) WithLogger(logger Logger) *PasswordResetInitializeHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute runs the reset initialization with a bounded timeout.
func (h *PasswordResetInitializeHandler) Execute(ctx context.Context, event PasswordResetInitializeMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := h.auth.ForgotPassword(ctx, event.Email); err != nil {
			return err
		}

		h.logger.Info("password reset initialized for %s", event.Email)

		return nil
	}
}

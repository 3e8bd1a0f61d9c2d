package auth

import (
	"context"
	"time"
)

// PasswordResetFinalizeMessage completes a reset with the emailed passcode.
type PasswordResetFinalizeMessage struct {
	ResetPasswordPayload
}

// Type satisfies the message router contract.
func (m PasswordResetFinalizeMessage) Type() string { return "auth.password_reset.finalize" }

// PasswordResetFinalizeHandler consumes the passcode and rotates the password.
type PasswordResetFinalizeHandler struct {
	auth   Authenticator
	logger Logger
}

// NewPasswordResetFinalizeHandler creates the handler.
func NewPasswordResetFinalizeHandler(auth Authenticator) *PasswordResetFinalizeHandler {
	return &PasswordResetFinalizeHandler{
		auth:   auth,
		logger: defLogger{},
	}
}

func (h *PasswordResetFinalizeHandler) WithLogger(logger Logger) *PasswordResetFinalizeHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute runs the reset finalization with a bounded timeout.
func (h *PasswordResetFinalizeHandler) Execute(ctx context.Context, event PasswordResetFinalizeMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := h.auth.ResetPassword(ctx, event.ResetPasswordPayload); err != nil {
			return err
		}

		h.logger.Info("password reset finalized for %s", event.Email)

		return nil
	}
}

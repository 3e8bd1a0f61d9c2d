package auth

import (
	"context"
	"time"
)

// RegisterUserMessage is the message payload for user registration.
type RegisterUserMessage struct {
	SignUpPayload
}

// Type satisfies the message router contract.
func (m RegisterUserMessage) Type() string { return "auth.register_user" }

// RegisterUserHandler registers a user account in response to a message.
type RegisterUserHandler struct {
	auth   Authenticator
	logger Logger
}

// NewRegisterUserHandler creates the handler.
func NewRegisterUserHandler(auth Authenticator) *RegisterUserHandler {
	return &RegisterUserHandler{
		auth:   auth,
		logger: defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute runs the registration with a bounded timeout.
func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		user, err := h.auth.SignUp(ctx, event.SignUpPayload)
		if err != nil {
			return err
		}

		h.logger.Info("registered user %s", user.ID)

		return nil
	}
}

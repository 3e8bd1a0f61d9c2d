package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// SignUpPayload carries the attributes needed to register an account.
// Password strength is enforced separately by the configured policy.
type SignUpPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	// UseHashid derives the user ID deterministically from the email instead
	// of minting a random UUID.
	UseHashid bool `json:"-"`
}

// Validate checks shape only, not password strength.
func (p SignUpPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
		validation.Field(&p.Username, validation.Length(0, 100)),
	)
}

// SignInPayload carries the login credentials. Username falls back to email
// when empty.
type SignInPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
}

func (p SignInPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, validation.Required),
		validation.Field(&p.Email, is.Email),
	)
}

// ChangePasswordPayload requires proof of the current password.
type ChangePasswordPayload struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (p ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.CurrentPassword, validation.Required),
		validation.Field(&p.NewPassword, validation.Required),
	)
}

// ResetPasswordPayload finalizes a reset with the emailed passcode.
type ResetPasswordPayload struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (p ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.OTP, validation.Required, validation.Length(OTPDigits, OTPDigits), is.Digit),
		validation.Field(&p.NewPassword, validation.Required),
	)
}

// getUsername falls back to the email when no explicit username was provided.
func getUsername(username, email string) string {
	if username != "" {
		return username
	}
	return email
}

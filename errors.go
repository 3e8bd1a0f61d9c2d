package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes give API consumers a stable machine-readable discriminator
// alongside the error category.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeTooManyAttempts    = "TOO_MANY_LOGIN_ATTEMPTS"
	TextCodeSessionNotFound    = "SESSION_NOT_FOUND"
	TextCodeSessionDecodeError = "SESSION_DECODE_ERROR"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenRevoked       = "TOKEN_REVOKED"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodeUsernameTaken      = "USERNAME_TAKEN"
	TextCodePasswordPolicy     = "PASSWORD_POLICY_VIOLATION"
	TextCodeInvalidOTP         = "INVALID_OTP"
	TextCodeUnknownEmail       = "UNKNOWN_EMAIL"
	TextCodeUserInactive       = "USER_INACTIVE"
	TextCodeWrongPassword      = "CURRENT_PASSWORD_MISMATCH"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound)

// ErrMismatchedHashAndPassword covers bad credentials without revealing which
// part failed.
var ErrMismatchedHashAndPassword = goerrors.New(
	"the credentials provided are invalid",
	goerrors.CategoryAuth,
).WithTextCode(TextCodeInvalidCreds)

// ErrTooManyLoginAttempts is returned once the cooldown window is exhausted.
var ErrTooManyLoginAttempts = goerrors.New(
	"too many login attempts, try again later",
	goerrors.CategoryRateLimit,
).WithTextCode(TextCodeTooManyAttempts)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New(
	"value must not be an empty string",
	goerrors.CategoryValidation,
).WithTextCode(TextCodeEmptyPassword)

// ErrTokenExpired is returned for tokens past their exp claim.
var ErrTokenExpired = goerrors.New(
	"token is expired",
	goerrors.CategoryAuth,
).WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers every other verification failure: bad signature,
// unexpected algorithm, tampered or garbage payloads. Kept deliberately
// uniform so callers cannot probe for structure.
var ErrTokenMalformed = goerrors.New(
	"token is malformed or has an invalid signature",
	goerrors.CategoryAuth,
).WithTextCode(TextCodeTokenMalformed)

// ErrTokenRevoked is returned when a cryptographically valid token has no
// matching ACTIVE session row.
var ErrTokenRevoked = goerrors.New(
	"token has been revoked",
	goerrors.CategoryAuth,
).WithTextCode(TextCodeTokenRevoked)

// ErrSessionNotFound is returned when no ACTIVE session matches the caller.
var ErrSessionNotFound = goerrors.New(
	"unable to find session",
	goerrors.CategoryNotFound,
).WithTextCode(TextCodeSessionNotFound)

// ErrEmailTaken is the conflict outcome for duplicate sign ups, whether caught
// by the pre check or by the storage unique constraint.
var ErrEmailTaken = goerrors.New(
	"user with this email already exists",
	goerrors.CategoryConflict,
).WithTextCode(TextCodeEmailTaken).WithCode(goerrors.CodeConflict)

// ErrUsernameTaken is the conflict outcome when the username unique
// constraint fires.
var ErrUsernameTaken = goerrors.New(
	"user with this username already exists",
	goerrors.CategoryConflict,
).WithTextCode(TextCodeUsernameTaken).WithCode(goerrors.CodeConflict)

// ErrInvalidOTP is returned for unknown, expired, or already consumed codes.
var ErrInvalidOTP = goerrors.New(
	"invalid or expired one time passcode",
	goerrors.CategoryBadInput,
).WithTextCode(TextCodeInvalidOTP)

// ErrUnknownEmail is returned by the reset flows when no account matches.
// NOTE: this leaks account existence; the text code lets a product layer mask
// the response if enumeration hardening is adopted.
var ErrUnknownEmail = goerrors.New(
	"no account matches the email provided",
	goerrors.CategoryBadInput,
).WithTextCode(TextCodeUnknownEmail)

// ErrCurrentPasswordMismatch rejects a change-password request with a wrong
// current password.
var ErrCurrentPasswordMismatch = goerrors.New(
	"current password is incorrect",
	goerrors.CategoryBadInput,
).WithTextCode(TextCodeWrongPassword)

// ErrUserInactive blocks authentication for INACTIVE accounts.
var ErrUserInactive = goerrors.New(
	"user account is inactive",
	goerrors.CategoryAuth,
).WithTextCode(TextCodeUserInactive)

// ErrUnableToDecodeSession unable to decode verified claims
var ErrUnableToDecodeSession = goerrors.New(
	"unable to decode session claims",
	goerrors.CategoryAuth,
).WithTextCode(TextCodeSessionDecodeError)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// ensureRichError passes categorized errors through verbatim and wraps
// anything unexpected as an internal failure so raw storage errors never
// cross the boundary.
func ensureRichError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}

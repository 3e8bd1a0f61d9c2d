package auth_test

import (
	"errors"
	"fmt"
	"testing"

	auth "github.com/goliatone/go-credentials"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category goerrors.Category
		textCode string
	}{
		{"identity not found", auth.ErrIdentityNotFound, goerrors.CategoryNotFound, ""},
		{"mismatched credentials", auth.ErrMismatchedHashAndPassword, goerrors.CategoryAuth, auth.TextCodeInvalidCreds},
		{"too many attempts", auth.ErrTooManyLoginAttempts, goerrors.CategoryRateLimit, auth.TextCodeTooManyAttempts},
		{"empty string", auth.ErrNoEmptyString, goerrors.CategoryValidation, auth.TextCodeEmptyPassword},
		{"token expired", auth.ErrTokenExpired, goerrors.CategoryAuth, auth.TextCodeTokenExpired},
		{"token malformed", auth.ErrTokenMalformed, goerrors.CategoryAuth, auth.TextCodeTokenMalformed},
		{"token revoked", auth.ErrTokenRevoked, goerrors.CategoryAuth, auth.TextCodeTokenRevoked},
		{"session not found", auth.ErrSessionNotFound, goerrors.CategoryNotFound, auth.TextCodeSessionNotFound},
		{"email taken", auth.ErrEmailTaken, goerrors.CategoryConflict, auth.TextCodeEmailTaken},
		{"username taken", auth.ErrUsernameTaken, goerrors.CategoryConflict, auth.TextCodeUsernameTaken},
		{"invalid otp", auth.ErrInvalidOTP, goerrors.CategoryBadInput, auth.TextCodeInvalidOTP},
		{"unknown email", auth.ErrUnknownEmail, goerrors.CategoryBadInput, auth.TextCodeUnknownEmail},
		{"current password mismatch", auth.ErrCurrentPasswordMismatch, goerrors.CategoryBadInput, auth.TextCodeWrongPassword},
		{"user inactive", auth.ErrUserInactive, goerrors.CategoryAuth, auth.TextCodeUserInactive},
		{"decode session", auth.ErrUnableToDecodeSession, goerrors.CategoryAuth, auth.TextCodeSessionDecodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var richErr *goerrors.Error
			require.True(t, goerrors.As(tt.err, &richErr))
			assert.Equal(t, tt.category, richErr.Category)
			if tt.textCode != "" {
				assert.Equal(t, tt.textCode, richErr.TextCode)
			}
		})
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.True(t, auth.IsTokenExpiredError(fmt.Errorf("validate: %w", auth.ErrTokenExpired)))
	assert.True(t, auth.IsTokenExpiredError(errors.New("token is expired")))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.True(t, auth.IsMalformedError(errors.New("missing or malformed JWT")))
	assert.False(t, auth.IsMalformedError(auth.ErrTokenExpired))
	assert.False(t, auth.IsMalformedError(nil))
}

func TestErrEmailTakenCarriesConflictCode(t *testing.T) {
	var richErr *goerrors.Error
	require.True(t, goerrors.As(auth.ErrEmailTaken, &richErr))
	assert.Equal(t, goerrors.CodeConflict, richErr.Code)
}

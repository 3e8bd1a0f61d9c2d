package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	auth "github.com/goliatone/go-credentials"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserEnsureStatus(t *testing.T) {
	user := &auth.User{}
	user.EnsureStatus()
	assert.Equal(t, auth.UserStatusActive, user.Status)

	user.Status = auth.UserStatusInactive
	user.EnsureStatus()
	assert.Equal(t, auth.UserStatusInactive, user.Status)
}

func TestUserIdentity(t *testing.T) {
	user := &auth.User{
		ID:       uuid.New(),
		Username: "pepe",
		Email:    "pepe@example.com",
		Role:     "admin",
	}

	identity := user.Identity()
	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "pepe", identity.Username())
	assert.Equal(t, "pepe@example.com", identity.Email())
	assert.Equal(t, "admin", identity.Role())
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Email:        "pepe@example.com",
		PasswordHash: "super-secret-hash",
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-hash")
}

func TestOtpCodeJSONHidesCode(t *testing.T) {
	otp := &auth.OtpCode{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Code:   "123456",
	}

	raw, err := json.Marshal(otp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "123456")
}

func TestSessionIsActive(t *testing.T) {
	now := time.Now()

	session := &auth.Session{
		Status:    auth.SessionStatusActive,
		ExpiresAt: now.Add(time.Hour),
	}
	assert.True(t, session.IsActive(now))
	assert.False(t, session.Expired(now))

	session.Status = auth.SessionStatusInactive
	assert.False(t, session.IsActive(now))

	session.Status = auth.SessionStatusActive
	session.ExpiresAt = now.Add(-time.Hour)
	assert.True(t, session.Expired(now))
	assert.False(t, session.IsActive(now))
}

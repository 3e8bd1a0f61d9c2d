package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// OTPDigits is the fixed width of generated reset codes.
const OTPDigits = 6

var otpCodeSpace = big.NewInt(1_000_000)

// OTPManager generates, validates, and expires one time reset codes. Codes
// come from crypto/rand so they cannot be guessed within their TTL window.
type OTPManager struct {
	store  OtpStore
	ttl    time.Duration
	logger Logger
}

// NewOTPManager creates a manager over the given store. A non-positive ttl
// falls back to DefaultOTPTTL.
func NewOTPManager(store OtpStore, ttl time.Duration) *OTPManager {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}

	return &OTPManager{
		store:  store,
		ttl:    ttl,
		logger: defLogger{},
	}
}

func (m *OTPManager) WithLogger(logger Logger) *OTPManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// TTL reports how long generated codes stay valid.
func (m *OTPManager) TTL() time.Duration {
	return m.ttl
}

// Generate mints a 6 digit code and persists it with the configured TTL.
// Outstanding codes for the user remain valid until consumed or expired.
func (m *OTPManager) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := randomOTPCode()
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate one time passcode")
	}

	expiresAt := time.Now().Add(m.ttl)
	if _, err := m.store.Create(ctx, userID, code, expiresAt); err != nil {
		return "", ensureRichError(err, "failed to persist one time passcode")
	}

	m.logger.Debug("otp generated for user %s, valid until %s", userID, expiresAt.Format(time.RFC3339))

	return code, nil
}

// Validate reports whether a non-expired record matches both the user and
// the code. The record is left in place; use Consume for single-use
// semantics.
func (m *OTPManager) Validate(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	if _, err := m.store.FindValid(ctx, userID, code); err != nil {
		if goerrors.IsNotFound(err) {
			return false, nil
		}
		return false, ensureRichError(err, "failed to look up one time passcode")
	}

	return true, nil
}

// Consume atomically validates and deletes the code; it returns false when
// the code is unknown, expired, or already used.
func (m *OTPManager) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	ok, err := m.store.Consume(ctx, userID, code)
	if err != nil {
		return false, ensureRichError(err, "failed to consume one time passcode")
	}

	return ok, nil
}

// Invalidate removes every outstanding code for the user. Called after a
// successful reset so stale codes cannot be replayed.
func (m *OTPManager) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := m.store.DeleteAllForUser(ctx, userID); err != nil {
		return ensureRichError(err, "failed to invalidate one time passcodes")
	}

	return nil
}

func randomOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpCodeSpace)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", OTPDigits, n), nil
}

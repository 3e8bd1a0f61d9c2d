package auth_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	auth "github.com/goliatone/go-credentials"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUsers satisfies auth.Users; the embedded repository interface covers the
// generic methods the tests never exercise.
type MockUsers struct {
	mock.Mock
	repository.Repository[*auth.User]
}

func (m *MockUsers) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	return userResult(args.Get(0)), args.Error(1)
}

func (m *MockUsers) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	return userResult(args.Get(0)), args.Error(1)
}

func (m *MockUsers) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	return userResult(args.Get(0)), args.Error(1)
}

func (m *MockUsers) CreateUser(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	return userResult(args.Get(0)), args.Error(1)
}

func (m *MockUsers) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsers) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsers) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	args := m.Called(ctx, tx, email)
	return userResult(args.Get(0)), args.Error(1)
}

func (m *MockUsers) FindByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*auth.User, error) {
	args := m.Called(ctx, tx, username)
	return userResult(args.Get(0)), args.Error(1)
}

func (m *MockUsers) CreateUserTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, tx, user)
	return userResult(args.Get(0)), args.Error(1)
}

func (m *MockUsers) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *auth.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUsers) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *auth.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func userResult(v any) *auth.User {
	if v == nil {
		return nil
	}
	return v.(*auth.User)
}

// MockSessions satisfies auth.Sessions.
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Create(ctx context.Context, userID uuid.UUID, tokenValue, ipAddress string) (*auth.Session, error) {
	args := m.Called(ctx, userID, tokenValue, ipAddress)
	return sessionResult(args.Get(0)), args.Error(1)
}

func (m *MockSessions) FindActiveByToken(ctx context.Context, tokenValue string) (*auth.Session, error) {
	args := m.Called(ctx, tokenValue)
	return sessionResult(args.Get(0)), args.Error(1)
}

func (m *MockSessions) FindActiveByUserAndToken(ctx context.Context, userID uuid.UUID, tokenValue string) (*auth.Session, error) {
	args := m.Called(ctx, userID, tokenValue)
	return sessionResult(args.Get(0)), args.Error(1)
}

func (m *MockSessions) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessions) CreateTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, tokenValue, ipAddress string) (*auth.Session, error) {
	args := m.Called(ctx, tx, userID, tokenValue, ipAddress)
	return sessionResult(args.Get(0)), args.Error(1)
}

func (m *MockSessions) DeactivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func sessionResult(v any) *auth.Session {
	if v == nil {
		return nil
	}
	return v.(*auth.Session)
}

// MockOtps satisfies auth.Otps.
type MockOtps struct {
	mock.Mock
}

func (m *MockOtps) Create(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (*auth.OtpCode, error) {
	args := m.Called(ctx, userID, code, expiresAt)
	return otpResult(args.Get(0)), args.Error(1)
}

func (m *MockOtps) FindValid(ctx context.Context, userID uuid.UUID, code string) (*auth.OtpCode, error) {
	args := m.Called(ctx, userID, code)
	return otpResult(args.Get(0)), args.Error(1)
}

func (m *MockOtps) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, userID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockOtps) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockOtps) CreateTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, code string, expiresAt time.Time) (*auth.OtpCode, error) {
	args := m.Called(ctx, tx, userID, code, expiresAt)
	return otpResult(args.Get(0)), args.Error(1)
}

func (m *MockOtps) DeleteAllForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func otpResult(v any) *auth.OtpCode {
	if v == nil {
		return nil
	}
	return v.(*auth.OtpCode)
}

// MockNotifier captures outbound reset codes.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOTP(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

// recordingSink collects activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Events() []auth.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

// mockRepoManager bundles the store mocks behind the manager interface.
type mockRepoManager struct {
	users    *MockUsers
	sessions *MockSessions
	otps     *MockOtps
}

func newMockRepoManager() *mockRepoManager {
	return &mockRepoManager{
		users:    &MockUsers{},
		sessions: &MockSessions{},
		otps:     &MockOtps{},
	}
}

func (m *mockRepoManager) Users() auth.Users       { return m.users }
func (m *mockRepoManager) Sessions() auth.Sessions { return m.sessions }
func (m *mockRepoManager) Otps() auth.Otps         { return m.otps }
func (m *mockRepoManager) Validate() error         { return nil }
func (m *mockRepoManager) MustValidate()           {}

func (m *mockRepoManager) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

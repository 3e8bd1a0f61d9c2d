package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Sessions is the revocable session registry. Rows are deactivated on logout,
// never deleted, so the registry doubles as an audit trail.
type Sessions interface {
	SessionStore

	CreateTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, tokenValue, ipAddress string) (*Session, error)
	DeactivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type sessions struct {
	repo repository.Repository[*Session]
	db   *bun.DB
	ttl  time.Duration
}

var (
	_ Sessions     = (*sessions)(nil)
	_ SessionStore = (*sessions)(nil)
)

// NewSessionsRepository builds the registry; ttl controls the computed
// expires_at for new rows and should match the token service expiration.
func NewSessionsRepository(db *bun.DB, ttl time.Duration) Sessions {
	repo := repository.NewRepository[*Session](db, repository.ModelHandlers[*Session]{
		NewRecord: func() *Session { return &Session{} },
		GetID: func(s *Session) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Session, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
	})

	if ttl <= 0 {
		ttl = DefaultTokenExpiration * time.Hour
	}

	return &sessions{
		repo: repo,
		db:   db,
		ttl:  ttl,
	}
}

func (s *sessions) Create(ctx context.Context, userID uuid.UUID, tokenValue, ipAddress string) (*Session, error) {
	return s.CreateTx(ctx, s.db, userID, tokenValue, ipAddress)
}

func (s *sessions) CreateTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, tokenValue, ipAddress string) (*Session, error) {
	record := &Session{
		ID:         uuid.New(),
		UserID:     userID,
		TokenValue: tokenValue,
		IPAddress:  ipAddress,
		Status:     SessionStatusActive,
		ExpiresAt:  time.Now().Add(s.ttl),
	}

	return s.repo.CreateTx(ctx, tx, record)
}

func (s *sessions) FindActiveByToken(ctx context.Context, tokenValue string) (*Session, error) {
	record := &Session{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.token_value = ?", tokenValue).
		Where("?TableAlias.status = ?", SessionStatusActive).
		Where("?TableAlias.expires_at > ?", time.Now()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound()
		}
		return nil, err
	}

	return record, nil
}

func (s *sessions) FindActiveByUserAndToken(ctx context.Context, userID uuid.UUID, tokenValue string) (*Session, error) {
	record := &Session{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.token_value = ?", tokenValue).
		Where("?TableAlias.status = ?", SessionStatusActive).
		Where("?TableAlias.expires_at > ?", time.Now()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"user_id": userID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

// Deactivate flips the row to INACTIVE. It is an idempotent UPDATE: revoking
// an already revoked session is a no-op, and nothing ever flips a row back.
func (s *sessions) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.DeactivateTx(ctx, s.db, id)
}

func (s *sessions) DeactivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewUpdate().
		Model((*Session)(nil)).
		Set("status = ?", SessionStatusInactive).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	return err
}

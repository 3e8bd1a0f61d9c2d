package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Otps persists one time passcodes. Consumption is a single atomic
// validate-and-delete so two concurrent reset attempts cannot both succeed
// with the same code.
type Otps interface {
	OtpStore

	CreateTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, code string, expiresAt time.Time) (*OtpCode, error)
	DeleteAllForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type otps struct {
	repo repository.Repository[*OtpCode]
	db   *bun.DB
}

var (
	_ Otps     = (*otps)(nil)
	_ OtpStore = (*otps)(nil)
)

func NewOtpRepository(db *bun.DB) Otps {
	repo := repository.NewRepository[*OtpCode](db, repository.ModelHandlers[*OtpCode]{
		NewRecord: func() *OtpCode { return &OtpCode{} },
		GetID: func(o *OtpCode) uuid.UUID {
			if o == nil {
				return uuid.Nil
			}
			return o.ID
		},
		SetID: func(o *OtpCode, id uuid.UUID) {
			if o != nil {
				o.ID = id
			}
		},
	})

	return &otps{
		repo: repo,
		db:   db,
	}
}

func (o *otps) Create(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (*OtpCode, error) {
	return o.CreateTx(ctx, o.db, userID, code, expiresAt)
}

func (o *otps) CreateTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, code string, expiresAt time.Time) (*OtpCode, error) {
	record := &OtpCode{
		ID:        uuid.New(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
	}

	return o.repo.CreateTx(ctx, tx, record)
}

func (o *otps) FindValid(ctx context.Context, userID uuid.UUID, code string) (*OtpCode, error) {
	record := &OtpCode{}
	err := o.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.code = ?", code).
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

// Consume deletes a matching, unexpired code and reports whether one existed.
// The single DELETE is the atomicity boundary: only one caller can win.
func (o *otps) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	res, err := o.db.NewDelete().
		Model((*OtpCode)(nil)).
		Where("user_id = ?", userID).
		Where("code = ?", code).
		Where("expires_at > ?", time.Now()).
		Exec(ctx)

	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (o *otps) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return o.DeleteAllForUserTx(ctx, o.db, userID)
}

func (o *otps) DeleteAllForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*OtpCode)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)

	return err
}

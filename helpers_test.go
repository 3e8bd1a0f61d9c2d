package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	auth "github.com/goliatone/go-credentials"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const testSigningKey = "test-signing-key-0123456789"

func testConfig() auth.StaticConfig {
	cfg := auth.NewStaticConfig(testSigningKey)
	cfg.Issuer = "credentials-test"
	cfg.Audience = []string{"test-clients"}
	cfg.SignUpDefaultStatus = auth.UserStatusActive
	return cfg
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	ctx := context.Background()
	models := []any{
		(*auth.User)(nil),
		(*auth.Session)(nil),
		(*auth.OtpCode)(nil),
	}

	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

func newTestRepoManager(t *testing.T) auth.RepositoryManager {
	t.Helper()
	return auth.NewRepositoryManager(newTestDB(t), 24*time.Hour)
}

func seedUser(t *testing.T, repo auth.RepositoryManager, email, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := repo.Users().CreateUser(context.Background(), &auth.User{
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		Status:       auth.UserStatusActive,
	})
	require.NoError(t, err)

	return user
}

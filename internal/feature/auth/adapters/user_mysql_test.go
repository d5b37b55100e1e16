package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/feature/auth/usecase"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.User{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func TestUserMySQL_Create(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserMySQL(db)
	ctx := context.Background()

	u := &entity.User{Email: "user@example.com", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	// 同じメールアドレスは重複エラー
	err := repo.Create(ctx, &entity.User{Email: "user@example.com", Password: "other"})
	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
}

func TestUserMySQL_FindByEmail(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserMySQL(db)
	ctx := context.Background()

	seed := &entity.User{Email: "user@example.com", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, seed))

	found, err := repo.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, seed.ID, found.ID)
	assert.Equal(t, "hashed", found.Password)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

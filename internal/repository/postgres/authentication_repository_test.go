package postgres

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelim/userbase/internal/types"
)

func newMockedAuthRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresAuthenticationRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresAuthenticationRepo(mock, slog.Default())
}

func TestPostgresAuthenticationRepoCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateIdentityBecomesConflict", func(t *testing.T) {
		mock, repo := newMockedAuthRepo(t)
		userID := uuid.New()
		hash := strings.Repeat("x", 60)

		mock.ExpectQuery(`INSERT INTO user_authentications`).
			WithArgs(userID, types.ProviderEmail, "jane@example.com", &hash, true).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "user_authentications_provider_provider_id_key"})

		_, err := repo.Create(ctx, &types.UserAuthentication{
			UserID:         userID,
			Provider:       types.ProviderEmail,
			ProviderID:     "jane@example.com",
			HashedPassword: &hash,
			IsActive:       true,
		})

		domainErr, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, types.CodeConflict, domainErr.Code)
	})
}

func TestPostgresAuthenticationRepoFindUserWithAuthentication(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock, repo := newMockedAuthRepo(t)
		userID := uuid.New()
		authID := uuid.New()
		hash := strings.Repeat("x", 60)
		now := time.Now()

		mock.ExpectQuery(`FROM users u\s+JOIN user_authentications a ON a\.user_id = u\.id`).
			WithArgs("jane@example.com", types.ProviderEmail).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "email", "first_name", "last_name", "is_active", "is_admin", "created_at", "updated_at",
				"a_id", "user_id", "provider", "provider_id", "hashed_password", "a_is_active", "a_created_at", "a_updated_at",
			}).AddRow(
				userID, "jane@example.com", "Jane", "Doe", true, false, now, now,
				authID, userID, types.ProviderEmail, "jane@example.com", &hash, true, now, now,
			))

		got, err := repo.FindUserWithAuthentication(ctx, "jane@example.com", types.ProviderEmail)
		assert.NoError(t, err)
		assert.Equal(t, userID, got.User.ID)
		assert.Equal(t, userID, got.Authentication.UserID)
		assert.NotNil(t, got.Authentication.HashedPassword)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AbsentIsNilNil", func(t *testing.T) {
		mock, repo := newMockedAuthRepo(t)

		mock.ExpectQuery(`FROM users u\s+JOIN user_authentications a ON a\.user_id = u\.id`).
			WithArgs("ghost@example.com", types.ProviderEmail).
			WillReturnError(pgx.ErrNoRows)

		got, err := repo.FindUserWithAuthentication(ctx, "ghost@example.com", types.ProviderEmail)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPostgresAuthenticationRepoDeleteByUserID(t *testing.T) {
	ctx := context.Background()
	mock, repo := newMockedAuthRepo(t)
	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM user_authentications WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	removed, err := repo.DeleteByUserID(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAuthenticationRepoFindByUserID(t *testing.T) {
	ctx := context.Background()
	mock, repo := newMockedAuthRepo(t)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM user_authentications WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT .+ FROM user_authentications WHERE user_id = \$1 ORDER BY created_at, id LIMIT \$2 OFFSET \$3`).
		WithArgs(userID, 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "provider", "provider_id", "hashed_password", "is_active", "created_at", "updated_at"}).
			AddRow(uuid.New(), userID, types.ProviderEmail, "jane@example.com", (*string)(nil), true, now, now).
			AddRow(uuid.New(), userID, types.ProviderGoogle, "google-subject-123", (*string)(nil), true, now, now))

	auths, total, err := repo.FindByUserID(ctx, userID, types.PageRequest{Page: 1, PageSize: 20})
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, auths, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

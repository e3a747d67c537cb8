package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
)

const authColumns = `id, user_id, provider, provider_id, hashed_password, is_active, created_at, updated_at`

// Ensure implementation satisfies the interface
var _ repository.AuthenticationRepo = (*PostgresAuthenticationRepo)(nil)

type PostgresAuthenticationRepo struct {
	db     Querier
	logger *slog.Logger
}

func NewPostgresAuthenticationRepo(db Querier, logger *slog.Logger) *PostgresAuthenticationRepo {
	return &PostgresAuthenticationRepo{db: db, logger: logger}
}

func scanAuthentication(row pgx.Row) (*types.UserAuthentication, error) {
	var a types.UserAuthentication
	err := row.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderID, &a.HashedPassword, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts the credential row. A duplicate (provider, providerID)
// pair surfaces as a typed conflict, never as a raw storage error.
func (r *PostgresAuthenticationRepo) Create(ctx context.Context, auth *types.UserAuthentication) (*types.UserAuthentication, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO user_authentications (user_id, provider, provider_id, hashed_password, is_active)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING `+authColumns,
		auth.UserID, auth.Provider, auth.ProviderID, auth.HashedPassword, auth.IsActive)

	created, err := scanAuthentication(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, types.NewConflictError("An account already exists for this provider identity")
		}
		return nil, fmt.Errorf("create user authentication: %w", err)
	}
	return created, nil
}

// FindByUserID lists the credentials owned by one user, paginated like
// every other list-returning method.
func (r *PostgresAuthenticationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]types.UserAuthentication, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM user_authentications WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count user authentications: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+authColumns+` FROM user_authentications WHERE user_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		userID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list user authentications: %w", err)
	}
	defer rows.Close()

	auths := make([]types.UserAuthentication, 0, page.PageSize)
	for rows.Next() {
		var a types.UserAuthentication
		if err := rows.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderID, &a.HashedPassword, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan authentication row: %w", err)
		}
		auths = append(auths, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate authentication rows: %w", err)
	}
	return auths, total, nil
}

// FindByProvider returns (nil, nil) when the external identity is
// unknown.
func (r *PostgresAuthenticationRepo) FindByProvider(ctx context.Context, provider types.AuthProvider, providerID string) (*types.UserAuthentication, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+authColumns+` FROM user_authentications WHERE provider = $1 AND provider_id = $2`,
		provider, providerID)
	auth, err := scanAuthentication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find authentication by provider: %w", err)
	}
	return auth, nil
}

// FindUserWithAuthentication fetches the user and its credential for
// one provider in a single query, so login needs exactly one round
// trip. Returns (nil, nil) when either half is missing.
func (r *PostgresAuthenticationRepo) FindUserWithAuthentication(ctx context.Context, email string, provider types.AuthProvider) (*types.UserWithAuthentication, error) {
	row := r.db.QueryRow(ctx,
		`SELECT u.id, u.email, u.first_name, u.last_name, u.is_active, u.is_admin, u.created_at, u.updated_at,
                a.id, a.user_id, a.provider, a.provider_id, a.hashed_password, a.is_active, a.created_at, a.updated_at
         FROM users u
         JOIN user_authentications a ON a.user_id = u.id
         WHERE u.email = lower($1) AND a.provider = $2`,
		email, provider)

	var out types.UserWithAuthentication
	err := row.Scan(
		&out.User.ID, &out.User.Email, &out.User.FirstName, &out.User.LastName,
		&out.User.IsActive, &out.User.IsAdmin, &out.User.CreatedAt, &out.User.UpdatedAt,
		&out.Authentication.ID, &out.Authentication.UserID, &out.Authentication.Provider, &out.Authentication.ProviderID,
		&out.Authentication.HashedPassword, &out.Authentication.IsActive, &out.Authentication.CreatedAt, &out.Authentication.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user with authentication: %w", err)
	}
	return &out, nil
}

// DeleteByUserID removes every credential owned by the user and
// reports how many rows went away. Runs before the user row itself is
// deleted to keep referential integrity ordering explicit.
func (r *PostgresAuthenticationRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_authentications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user authentications: %w", err)
	}
	return tag.RowsAffected(), nil
}

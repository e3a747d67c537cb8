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

// Querier is the subset of pgx executed against. Satisfied by
// *pgxpool.Pool, pgx.Tx and the pgxmock pool, so the same repository
// runs pooled, transaction-bound or under test.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const pgUniqueViolation = "23505"

const userColumns = `id, email, first_name, last_name, is_active, is_admin, created_at, updated_at`

// Ensure implementation satisfies the interface
var _ repository.UserRepo = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	db     Querier
	logger *slog.Logger
}

// NewPostgresUserRepo creates a user repository bound to db, which may
// be the shared pool or one open transaction.
func NewPostgresUserRepo(db Querier, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{db: db, logger: logger}
}

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID returns (nil, nil) when no row matches.
func (r *PostgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased
// but lookups tolerate mixed-case input.
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// Create inserts the entity and returns the persisted row with its
// database-assigned id and timestamps.
func (r *PostgresUserRepo) Create(ctx context.Context, user *types.User) (*types.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, first_name, last_name, is_active, is_admin)
         VALUES (lower($1), $2, $3, $4, $5)
         RETURNING `+userColumns,
		user.Email, user.FirstName, user.LastName, user.IsActive, user.IsAdmin)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, types.NewConflictError("Email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Update persists the mutable fields and returns the refreshed row, or
// (nil, nil) when the user no longer exists.
func (r *PostgresUserRepo) Update(ctx context.Context, user *types.User) (*types.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users
         SET email = lower($2), first_name = $3, last_name = $4, is_active = $5, is_admin = $6, updated_at = now()
         WHERE id = $1
         RETURNING `+userColumns,
		user.ID, user.Email, user.FirstName, user.LastName, user.IsActive, user.IsAdmin)

	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, types.NewConflictError("Email is already registered")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// Delete removes the row and reports whether anything was deleted.
func (r *PostgresUserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindMany returns one page ordered by creation time plus the total
// row count for pagination metadata.
func (r *PostgresUserRepo) FindMany(ctx context.Context, page types.PageRequest) ([]types.User, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]types.User, 0, page.PageSize)
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, total, nil
}

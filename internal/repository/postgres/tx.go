package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/dmelim/userbase/internal/repository"
)

type txBundleKey struct{}

// beginner is what the harness needs from the pool. Satisfied by
// *pgxpool.Pool and the pgxmock pool.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Ensure implementation satisfies the interface
var _ repository.TxManager = (*TxManager)(nil)

// TxManager owns the one-transaction-per-top-level-call guarantee. The
// pooled connection backing a transaction is exclusive to it until
// commit or rollback returns it to the pool.
type TxManager struct {
	db     beginner
	logger *slog.Logger
}

func NewTxManager(db beginner, logger *slog.Logger) *TxManager {
	return &TxManager{db: db, logger: logger}
}

// Transactionally opens one atomic scope, hands fn a repository bundle
// bound to it, commits on nil and rolls back on any error. When a scope
// is already open on ctx the callback joins it; opening a second
// independent transaction mid-callback would break atomicity.
func (m *TxManager) Transactionally(ctx context.Context, fn func(ctx context.Context, repos *repository.Bundle) error) error {
	if bundle, ok := ctx.Value(txBundleKey{}).(*repository.Bundle); ok {
		return fn(ctx, bundle)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	bundle := NewBundle(tx, m.logger)
	ctx = context.WithValue(ctx, txBundleKey{}, bundle)

	if err := fn(ctx, bundle); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.logger.ErrorContext(ctx, "Transaction rollback failed", slog.Any("error", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewBundle builds a repository bundle bound to db, typically the open
// transaction handle.
func NewBundle(db Querier, logger *slog.Logger) *repository.Bundle {
	return &repository.Bundle{
		Users:           NewPostgresUserRepo(db, logger),
		Authentications: NewPostgresAuthenticationRepo(db, logger),
	}
}

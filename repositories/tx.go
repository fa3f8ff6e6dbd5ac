package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// TxRunner runs a unit of work inside one database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type sqlTxRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTxRunner(db *sql.DB, logger *slog.Logger) TxRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqlTxRunner{db: db, logger: logger}
}

// RunInTx begins a transaction, runs fn and commits. Any error returned by fn,
// and any panic, rolls the transaction back; the pooled connection is handed
// back on every path because the tx always ends in Commit or Rollback.
func (r *sqlTxRunner) RunInTx(ctx context.Context, fn func(exec SQLExecutor) error) (txErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("rollback after panic failed", slog.Any("error", rbErr))
			}
			panic(p)
		}
		if txErr == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.Error("transaction rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
			txErr = errors.Join(txErr, fmt.Errorf("rollback failed: %w", rbErr))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/fulfillment/internal/db"
	"github.com/nikolayk812/fulfillment/internal/port"
)

type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// withTx executes fn within a transaction if the repository was created with a pool,
// or uses the existing transaction if the repository was created with a transaction
func withTx[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (T, error) {
	var zero T

	if tx, ok := dbtx.(pgx.Tx); ok {
		return fn(db.New(tx))
	}

	beginner, ok := dbtx.(txBeginner)
	if !ok {
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor txBeginner: %T", dbtx)
	}

	var result T

	err := runTx(ctx, beginner, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var err error
		result, err = fn(db.New(tx))
		return err
	})
	if err != nil {
		return zero, err
	}

	return result, nil
}

func runTx(ctx context.Context, beginner txBeginner, opts pgx.TxOptions, fn func(tx pgx.Tx) error) (txErr error) {
	tx, err := beginner.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("BeginTx: %w", err)
	}

	defer func() {
		if txErr != nil {
			// the context may already be done, rollback must still reach the server
			rollbackErr := tx.Rollback(context.WithoutCancel(ctx))
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}

type TxTimeouts struct {
	// LockTimeout bounds waiting for a row lock held by a concurrent transaction.
	LockTimeout time.Duration
	// StatementTimeout bounds any single statement.
	StatementTimeout time.Duration
}

type transactor struct {
	beginner txBeginner
	timeouts TxTimeouts
}

func NewTransactor(beginner txBeginner, timeouts TxTimeouts) (port.Transactor, error) {
	if beginner == nil {
		return nil, errors.New("beginner is nil")
	}

	return &transactor{
		beginner: beginner,
		timeouts: timeouts,
	}, nil
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepositories) error) error {
	err := runTx(ctx, t.beginner, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if err := setLocalTimeouts(ctx, tx, t.timeouts); err != nil {
			return fmt.Errorf("setLocalTimeouts: %w", err)
		}

		return fn(ctx, port.TxRepositories{
			Catalog: NewCatalogWithTx(tx),
			Orders:  NewOrderWithTx(tx),
		})
	})
	if err != nil {
		return classifyError(ctx, err)
	}

	return nil
}

func setLocalTimeouts(ctx context.Context, tx pgx.Tx, timeouts TxTimeouts) error {
	settings := map[string]time.Duration{
		"lock_timeout":      timeouts.LockTimeout,
		"statement_timeout": timeouts.StatementTimeout,
	}

	for name, value := range settings {
		if value <= 0 {
			continue
		}

		if _, err := tx.Exec(ctx, "SELECT set_config($1, $2, true)", name, fmt.Sprintf("%dms", value.Milliseconds())); err != nil {
			return fmt.Errorf("set_config[%s]: %w", name, err)
		}
	}

	return nil
}

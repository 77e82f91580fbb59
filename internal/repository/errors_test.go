package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
	}{
		{
			name:     "serialization failure: conflict",
			err:      &pgconn.PgError{Code: pgSerializationFailure},
			wantKind: domain.ErrConflict,
		},
		{
			name:     "deadlock: conflict",
			err:      &pgconn.PgError{Code: pgDeadlockDetected},
			wantKind: domain.ErrConflict,
		},
		{
			name:     "lock not available: conflict",
			err:      fmt.Errorf("q.LockCatalogItems: %w", &pgconn.PgError{Code: pgLockNotAvailable}),
			wantKind: domain.ErrConflict,
		},
		{
			name:     "stock check violation: conflict",
			err:      &pgconn.PgError{Code: pgCheckViolation, ConstraintName: stockCheckConstraint},
			wantKind: domain.ErrConflict,
		},
		{
			name:     "statement timeout: timeout",
			err:      &pgconn.PgError{Code: pgQueryCanceled},
			wantKind: domain.ErrTimeout,
		},
		{
			name:     "deadline exceeded: timeout",
			err:      fmt.Errorf("tx.Commit: %w", context.DeadlineExceeded),
			wantKind: domain.ErrTimeout,
		},
		{
			name:     "admin shutdown: unavailable",
			err:      &pgconn.PgError{Code: "57P01"},
			wantKind: domain.ErrStorageUnavailable,
		},
		{
			name:     "connection failure: unavailable",
			err:      &pgconn.PgError{Code: "08006"},
			wantKind: domain.ErrStorageUnavailable,
		},
		{
			name:     "too many connections: unavailable",
			err:      &pgconn.PgError{Code: "53300"},
			wantKind: domain.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyError(t.Context(), tt.err)

			require.ErrorIs(t, classified, tt.wantKind)
			assert.ErrorIs(t, classified, tt.err)
		})
	}
}

func TestClassifyError_Unchanged(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "nil",
		},
		{
			name: "already classified",
			err:  fmt.Errorf("x: %w", &domain.InsufficientStockError{Requested: 2, Available: 1}),
		},
		{
			name: "other check violation",
			err:  &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "order_items_check"},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
		},
		{
			name: "canceled",
			err:  context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err, classifyError(t.Context(), tt.err))
		})
	}
}

func TestClassifyError_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 0)
	defer cancel()
	<-ctx.Done()

	err := classifyError(ctx, errors.New("conn closed"))
	require.ErrorIs(t, err, domain.ErrTimeout)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/fulfillment/internal/domain"
)

// postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
	pgCheckViolation       = "23514"
	pgForeignKeyViolation  = "23503"

	stockCheckConstraint = "catalog_items_stock_quantity_check"
)

var domainKinds = []error{
	domain.ErrInvalidRequest,
	domain.ErrItemNotFound,
	domain.ErrInsufficientStock,
	domain.ErrConflict,
	domain.ErrTimeout,
	domain.ErrStorageUnavailable,
	domain.ErrOrderNotFound,
	domain.ErrGenreNotFound,
	domain.ErrGenreInUse,
}

// classifyError maps driver failures onto the domain error kinds, keeping the driver error in the chain.
// Errors that already carry a domain kind are returned unchanged.
func classifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	for _, kind := range domainKinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgSerializationFailure,
			pgErr.Code == pgDeadlockDetected,
			pgErr.Code == pgLockNotAvailable:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		case pgErr.Code == pgCheckViolation && pgErr.ConstraintName == stockCheckConstraint:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		case pgErr.Code == pgQueryCanceled:
			return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
		case isUnavailableClass(pgErr.Code):
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}

		return err
	}

	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}

	var (
		connectErr *pgconn.ConnectError
		netErr     net.Error
	)
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	return err
}

// 08: connection exception, 53: insufficient resources, 57P0x: server shutting down.
func isUnavailableClass(code string) bool {
	if len(code) < 2 {
		return false
	}

	switch code[:2] {
	case "08", "53":
		return true
	}

	switch code {
	case "57P01", "57P02", "57P03":
		return true
	}

	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

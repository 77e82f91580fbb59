package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrItemNotFound       = errors.New("catalog item not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrConflict           = errors.New("concurrent update conflict")
	ErrTimeout            = errors.New("operation timed out")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrOrderNotFound = errors.New("order not found")
	ErrGenreNotFound = errors.New("genre not found")
	ErrGenreInUse    = errors.New("genre has active catalog items")

	// ErrCurrencyMismatch is reported when one request spans items priced in different currencies.
	ErrCurrencyMismatch = fmt.Errorf("%w: items are priced in different currencies", ErrInvalidRequest)
)

// ItemNotFoundError lists requested catalog items that do not exist or are soft-deleted.
type ItemNotFoundError struct {
	MissingIDs []uuid.UUID
}

func (e *ItemNotFoundError) Error() string {
	ids := make([]string, 0, len(e.MissingIDs))
	for _, id := range e.MissingIDs {
		ids = append(ids, id.String())
	}

	return fmt.Sprintf("%s: [%s]", ErrItemNotFound, strings.Join(ids, ", "))
}

func (e *ItemNotFoundError) Unwrap() error {
	return ErrItemNotFound
}

type InsufficientStockError struct {
	CatalogItemID uuid.UUID
	Requested     int
	Available     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: item[%s] requested %d, available %d, short by %d",
		ErrInsufficientStock, e.CatalogItemID, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

// IsRetryable reports whether the caller may retry the whole operation unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrTimeout)
}

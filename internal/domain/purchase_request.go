package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type PurchaseLine struct {
	CatalogItemID uuid.UUID
	Quantity      int
}

type PurchaseRequest struct {
	BuyerID string
	Lines   []PurchaseLine
}

func (r PurchaseRequest) Validate() error {
	if r.BuyerID == "" {
		return fmt.Errorf("%w: buyerID is empty", ErrInvalidRequest)
	}

	if len(r.Lines) == 0 {
		return fmt.Errorf("%w: no lines in request", ErrInvalidRequest)
	}

	for idx, line := range r.Lines {
		if line.CatalogItemID == uuid.Nil {
			return fmt.Errorf("%w: line[%d]: catalogItemID is empty", ErrInvalidRequest, idx)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: line[%d]: quantity must be positive, got %d", ErrInvalidRequest, idx, line.Quantity)
		}
	}

	return nil
}

// Quantities merges lines by catalog item, summing quantities of repeated items.
// Ids are returned in first-seen order.
func (r PurchaseRequest) Quantities() ([]uuid.UUID, map[uuid.UUID]int) {
	var ids []uuid.UUID
	quantities := make(map[uuid.UUID]int, len(r.Lines))

	for _, line := range r.Lines {
		if _, seen := quantities[line.CatalogItemID]; !seen {
			ids = append(ids, line.CatalogItemID)
		}
		quantities[line.CatalogItemID] += line.Quantity
	}

	return ids, quantities
}

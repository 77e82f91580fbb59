package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// Order is immutable once created. TotalAmount is derived from the items and is never persisted.
type Order struct {
	ID          uuid.UUID
	BuyerID     string
	Items       []OrderItem
	TotalAmount Money

	CreatedAt time.Time
}

// OrderItem captures price and quantity at purchase time; it is never recomputed from the catalog.
type OrderItem struct {
	ID            uuid.UUID
	CatalogItemID uuid.UUID
	Quantity      int
	UnitPrice     Money
	Subtotal      Money

	CreatedAt time.Time
}

func NewOrderItem(catalogItemID uuid.UUID, unitPrice Money, quantity int) OrderItem {
	return OrderItem{
		CatalogItemID: catalogItemID,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		Subtotal:      unitPrice.Mul(quantity),
	}
}

// SumSubtotals returns the sum of item subtotals. All items of an order share one currency.
func SumSubtotals(items []OrderItem, unit currency.Unit) Money {
	total := ZeroMoney(unit)
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}

	return total
}

// OrderTotal is one row of the per-order subtotal stream.
type OrderTotal struct {
	OrderID uuid.UUID
	Total   Money
}

// OrderPlaced is published after a fulfillment commits.
type OrderPlaced struct {
	OrderID     uuid.UUID
	BuyerID     string
	Items       []OrderItem
	TotalAmount Money
	PlacedAt    time.Time
}

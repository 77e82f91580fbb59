package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// sqlc has no streaming mode, so this query lives outside queries/.
const orderTotals = `
SELECT o.id, o.currency, SUM(oi.subtotal_amount)::numeric AS total
FROM orders o
         JOIN order_items oi ON oi.order_id = o.id
GROUP BY o.id, o.currency
`

type OrderTotalsRow struct {
	ID       uuid.UUID
	Currency string
	Total    decimal.Decimal
}

// StreamOrderTotals hands per-order subtotal sums to fn one row at a time.
// Iteration stops at the first error returned by fn.
func (q *Queries) StreamOrderTotals(ctx context.Context, fn func(OrderTotalsRow) error) error {
	rows, err := q.db.Query(ctx, orderTotals)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var i OrderTotalsRow
		if err := rows.Scan(&i.ID, &i.Currency, &i.Total); err != nil {
			return err
		}
		if err := fn(i); err != nil {
			return err
		}
	}

	return rows.Err()
}

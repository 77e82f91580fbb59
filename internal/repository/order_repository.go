package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/fulfillment/internal/db"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

// CreateOrderWithItems inserts the order row before its items, all in one transaction.
func (r *orderRepository) CreateOrderWithItems(ctx context.Context, buyerID string, items []domain.OrderItem) (domain.Order, error) {
	var o domain.Order

	if err := validateOrderItems(buyerID, items); err != nil {
		return o, err
	}

	orderCurrency := items[0].UnitPrice.Currency

	order, err := r.withTxOrder(ctx, func(q *db.Queries) (domain.Order, error) {
		inserted, err := q.InsertOrder(ctx, db.InsertOrderParams{
			BuyerID:  buyerID,
			Currency: orderCurrency.String(),
		})
		if err != nil {
			return o, fmt.Errorf("q.InsertOrder: %w", err)
		}

		created := make([]domain.OrderItem, 0, len(items))

		for idx, item := range items {
			arg := db.InsertOrderItemParams{
				OrderID:         inserted.ID,
				LineNo:          int32(idx + 1),
				CatalogItemID:   item.CatalogItemID,
				Quantity:        int32(item.Quantity),
				UnitPriceAmount: item.UnitPrice.Amount,
				SubtotalAmount:  item.Subtotal.Amount,
				PriceCurrency:   item.UnitPrice.Currency.String(),
			}

			row, err := q.InsertOrderItem(ctx, arg)
			if err != nil {
				if isForeignKeyViolation(err) {
					return o, fmt.Errorf("q.InsertOrderItem: %w", &domain.ItemNotFoundError{MissingIDs: []uuid.UUID{item.CatalogItemID}})
				}
				return o, fmt.Errorf("q.InsertOrderItem: %w", err)
			}

			item.ID = row.ID
			item.CreatedAt = row.CreatedAt
			created = append(created, item)
		}

		return domain.Order{
			ID:          inserted.ID,
			BuyerID:     buyerID,
			Items:       created,
			TotalAmount: domain.SumSubtotals(created, orderCurrency),
			CreatedAt:   inserted.CreatedAt,
		}, nil
	})
	if err != nil {
		return o, fmt.Errorf("r.withTxOrder: %w", classifyError(ctx, err))
	}

	return order, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := r.withTxOrder(ctx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetOrder: %w", domain.ErrOrderNotFound)
			}
			return o, fmt.Errorf("q.GetOrder: %w", err)
		}

		dbOrderItems, err := q.GetOrderItems(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderItems)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("r.withTxOrder: %w", classifyError(ctx, err))
	}

	return order, nil
}

// ListOrders returns the newest orders first. Count, page and items are read in one transaction.
func (r *orderRepository) ListOrders(ctx context.Context, page domain.PageRequest) (domain.OrderPage, error) {
	if err := page.Validate(); err != nil {
		return domain.OrderPage{}, fmt.Errorf("page.Validate: %w", err)
	}

	result, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.OrderPage, error) {
		total, err := q.CountOrders(ctx)
		if err != nil {
			return domain.OrderPage{}, fmt.Errorf("q.CountOrders: %w", err)
		}

		dbOrders, err := q.ListOrders(ctx, db.ListOrdersParams{
			Limit:  int32(page.Limit),
			Offset: int32(page.Offset()),
		})
		if err != nil {
			return domain.OrderPage{}, fmt.Errorf("q.ListOrders: %w", err)
		}

		orderIDs := lo.Map(dbOrders, func(o db.Order, _ int) uuid.UUID { return o.ID })

		var dbItems []db.OrderItem
		if len(orderIDs) > 0 {
			dbItems, err = q.GetOrderItemsByOrderIDs(ctx, orderIDs)
			if err != nil {
				return domain.OrderPage{}, fmt.Errorf("q.GetOrderItemsByOrderIDs: %w", err)
			}
		}

		itemsByOrder := lo.GroupBy(dbItems, func(i db.OrderItem) uuid.UUID { return i.OrderID })

		orders := make([]domain.Order, 0, len(dbOrders))
		for _, dbOrder := range dbOrders {
			order, err := mapDBOrderToDomain(dbOrder, itemsByOrder[dbOrder.ID])
			if err != nil {
				return domain.OrderPage{}, fmt.Errorf("mapDBOrderToDomain: %w", err)
			}
			orders = append(orders, order)
		}

		return domain.NewOrderPage(orders, page, int(total)), nil
	})
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("withTx: %w", classifyError(ctx, err))
	}

	return result, nil
}

// StreamOrderTotals takes no locks; orders committed while streaming may or may not be seen.
func (r *orderRepository) StreamOrderTotals(ctx context.Context, fn func(domain.OrderTotal) error) error {
	err := r.q.StreamOrderTotals(ctx, func(row db.OrderTotalsRow) error {
		parsedCurrency, err := currency.ParseISO(row.Currency)
		if err != nil {
			return fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
		}

		return fn(domain.OrderTotal{
			OrderID: row.ID,
			Total:   domain.Money{Amount: row.Total, Currency: parsedCurrency},
		})
	})
	if err != nil {
		return fmt.Errorf("q.StreamOrderTotals: %w", classifyError(ctx, err))
	}

	return nil
}

func (r *orderRepository) CountPurchaseEventsByGenre(ctx context.Context) ([]domain.GenrePopularity, error) {
	rows, err := r.q.CountPurchaseEventsByGenre(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.CountPurchaseEventsByGenre: %w", classifyError(ctx, err))
	}

	return lo.Map(rows, func(row db.CountPurchaseEventsByGenreRow, _ int) domain.GenrePopularity {
		return domain.GenrePopularity{
			GenreID:        row.ID,
			Name:           row.Name,
			PurchaseEvents: int(row.PurchaseEvents),
		}
	}), nil
}

func (r *orderRepository) withTxOrder(ctx context.Context, fn func(q *db.Queries) (domain.Order, error)) (domain.Order, error) {
	return withTx(ctx, r.dbtx, fn)
}

func validateOrderItems(buyerID string, items []domain.OrderItem) error {
	if buyerID == "" {
		return fmt.Errorf("%w: buyerID is empty", domain.ErrInvalidRequest)
	}

	if len(items) == 0 {
		return fmt.Errorf("%w: no items in order", domain.ErrInvalidRequest)
	}

	for idx, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item[%d]: quantity must be positive", domain.ErrInvalidRequest, idx)
		}
		if !item.UnitPrice.SameCurrency(items[0].UnitPrice) || !item.Subtotal.SameCurrency(item.UnitPrice) {
			return fmt.Errorf("item[%d]: %w", idx, domain.ErrCurrencyMismatch)
		}
		if !item.Subtotal.Amount.Equal(item.UnitPrice.Mul(item.Quantity).Amount) {
			return fmt.Errorf("%w: item[%d]: subtotal does not match unit price times quantity", domain.ErrInvalidRequest, idx)
		}
	}

	return nil
}

func mapDBOrderItemToDomain(row db.OrderItem) (domain.OrderItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderItem{
		ID:            row.ID,
		CatalogItemID: row.CatalogItemID,
		Quantity:      int(row.Quantity),
		UnitPrice:     domain.Money{Amount: row.UnitPriceAmount, Currency: parsedCurrency},
		Subtotal:      domain.Money{Amount: row.SubtotalAmount, Currency: parsedCurrency},
		CreatedAt:     row.CreatedAt,
	}, nil
}

func mapDBOrderItemsToDomain(rows []db.OrderItem) ([]domain.OrderItem, error) {
	var items []domain.OrderItem

	for _, row := range rows {
		item, err := mapDBOrderItemToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapDBOrderItemToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

// mapDBOrderToDomain derives TotalAmount from the item subtotals.
func mapDBOrderToDomain(dbOrder db.Order, dbOrderItems []db.OrderItem) (domain.Order, error) {
	var o domain.Order

	parsedCurrency, err := currency.ParseISO(dbOrder.Currency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", dbOrder.Currency, err)
	}

	items, err := mapDBOrderItemsToDomain(dbOrderItems)
	if err != nil {
		return o, fmt.Errorf("mapDBOrderItemsToDomain: %w", err)
	}

	return domain.Order{
		ID:          dbOrder.ID,
		BuyerID:     dbOrder.BuyerID,
		Items:       items,
		TotalAmount: domain.SumSubtotals(items, parsedCurrency),
		CreatedAt:   dbOrder.CreatedAt,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/port"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type FulfillerConfig struct {
	// MaxAttempts bounds how many times the whole operation runs when it hits a conflict.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Timeout bounds a single Fulfill call including retries. Zero means no bound.
	Timeout time.Duration
}

func DefaultFulfillerConfig() FulfillerConfig {
	return FulfillerConfig{
		MaxAttempts:    3,
		InitialBackoff: 20 * time.Millisecond,
		MaxBackoff:     200 * time.Millisecond,
		Timeout:        5 * time.Second,
	}
}

func (c FulfillerConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("maxAttempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.InitialBackoff <= 0 || c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("backoff range [%s, %s] is not valid", c.InitialBackoff, c.MaxBackoff)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout is negative: %s", c.Timeout)
	}

	return nil
}

// Fulfiller turns purchase requests into orders. Catalog read, stock check, order creation and
// stock decrement run in one transaction; the catalog rows stay locked from the read until commit.
type Fulfiller struct {
	transactor port.Transactor
	publisher  port.EventPublisher
	cfg        FulfillerConfig
	tracer     trace.Tracer
}

// NewFulfiller accepts a nil publisher, in which case no events are published.
func NewFulfiller(transactor port.Transactor, publisher port.EventPublisher, cfg FulfillerConfig) (*Fulfiller, error) {
	if transactor == nil {
		return nil, errors.New("transactor is nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cfg.Validate: %w", err)
	}

	return &Fulfiller{
		transactor: transactor,
		publisher:  publisher,
		cfg:        cfg,
		tracer:     tracer(),
	}, nil
}

func (f *Fulfiller) Fulfill(ctx context.Context, req domain.PurchaseRequest) (domain.Order, error) {
	ctx, span := f.tracer.Start(ctx, "Fulfiller.Fulfill", trace.WithAttributes(
		attribute.String("buyer.id", req.BuyerID),
		attribute.Int("order.lines", len(req.Lines)),
	))
	defer span.End()

	order, attempts, err := f.fulfill(ctx, req)
	span.SetAttributes(attribute.Int("fulfill.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fulfillment failed")
		return domain.Order{}, err
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("order.total", order.TotalAmount.Amount.String()),
	)
	span.SetStatus(codes.Ok, "order placed")

	slog.Info("order placed",
		"order_id", order.ID,
		"buyer_id", order.BuyerID,
		"items", len(order.Items),
		"total", order.TotalAmount.Amount.String(),
		"attempts", attempts)

	f.publish(ctx, order)

	return order, nil
}

func (f *Fulfiller) fulfill(ctx context.Context, req domain.PurchaseRequest) (domain.Order, int, error) {
	var order domain.Order

	if err := req.Validate(); err != nil {
		return order, 0, fmt.Errorf("req.Validate: %w", err)
	}

	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	attempts := 0

	operation := func() error {
		attempts++

		var err error
		order, err = f.fulfillOnce(ctx, req)
		if err == nil {
			return nil
		}

		if errors.Is(err, domain.ErrConflict) {
			return err
		}

		return backoff.Permanent(err)
	}

	notify := func(err error, next time.Duration) {
		slog.Warn("fulfillment conflict, retrying",
			"buyer_id", req.BuyerID,
			"attempt", attempts,
			"next_in", next,
			"err", err)
	}

	err := backoff.RetryNotify(operation, f.newBackOff(ctx), notify)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
			err = fmt.Errorf("%w: %w", domain.ErrTimeout, err)
		}
		return domain.Order{}, attempts, fmt.Errorf("fulfillOnce: %w", err)
	}

	return order, attempts, nil
}

func (f *Fulfiller) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = f.cfg.InitialBackoff
	exp.MaxInterval = f.cfg.MaxBackoff
	exp.MaxElapsedTime = 0 // bounded by attempts and ctx

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(f.cfg.MaxAttempts-1)), ctx)
}

func (f *Fulfiller) fulfillOnce(ctx context.Context, req domain.PurchaseRequest) (domain.Order, error) {
	var order domain.Order

	ids, quantities := req.Quantities()

	err := f.transactor.WithinTx(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		catalogItems, err := repos.Catalog.FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return fmt.Errorf("Catalog.FindByIDsForUpdate: %w", err)
		}

		byID := lo.KeyBy(catalogItems, func(item domain.CatalogItem) uuid.UUID { return item.ID })

		missing := lo.Filter(ids, func(id uuid.UUID, _ int) bool {
			_, ok := byID[id]
			return !ok
		})
		if len(missing) > 0 {
			return &domain.ItemNotFoundError{MissingIDs: missing}
		}

		orderItems, err := buildOrderItems(req.Lines, ids, quantities, byID)
		if err != nil {
			return err
		}

		created, err := repos.Orders.CreateOrderWithItems(ctx, req.BuyerID, orderItems)
		if err != nil {
			return fmt.Errorf("Orders.CreateOrderWithItems: %w", err)
		}

		for _, id := range ids {
			if err := repos.Catalog.DecrementStock(ctx, id, quantities[id]); err != nil {
				return fmt.Errorf("Catalog.DecrementStock: %w", err)
			}
		}

		order = created
		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("transactor.WithinTx: %w", err)
	}

	return order, nil
}

// buildOrderItems checks stock against the merged per-item quantities, then prices every
// request line at the current catalog price.
func buildOrderItems(
	lines []domain.PurchaseLine,
	ids []uuid.UUID,
	quantities map[uuid.UUID]int,
	byID map[uuid.UUID]domain.CatalogItem,
) ([]domain.OrderItem, error) {
	for _, id := range ids {
		item := byID[id]
		if requested := quantities[id]; requested > item.StockQuantity {
			return nil, &domain.InsufficientStockError{
				CatalogItemID: id,
				Requested:     requested,
				Available:     item.StockQuantity,
			}
		}
	}

	first := byID[ids[0]].Price
	items := make([]domain.OrderItem, 0, len(lines))

	for _, line := range lines {
		price := byID[line.CatalogItemID].Price
		if !price.SameCurrency(first) {
			return nil, fmt.Errorf("item[%s] priced in %s, expected %s: %w",
				line.CatalogItemID, price.Currency, first.Currency, domain.ErrCurrencyMismatch)
		}

		items = append(items, domain.NewOrderItem(line.CatalogItemID, price, line.Quantity))
	}

	return items, nil
}

func (f *Fulfiller) publish(ctx context.Context, order domain.Order) {
	if f.publisher == nil {
		return
	}

	event := domain.OrderPlaced{
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		Items:       order.Items,
		TotalAmount: order.TotalAmount,
		PlacedAt:    order.CreatedAt,
	}

	// the order is committed, a lost event must not fail the purchase
	if err := f.publisher.PublishOrderPlaced(context.WithoutCancel(ctx), event); err != nil {
		slog.Warn("failed to publish order placed event",
			"order_id", order.ID,
			"err", err)
	}
}

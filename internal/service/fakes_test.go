package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// fakeCatalog serves the engine's two catalog calls from memory. Unused methods panic.
type fakeCatalog struct {
	port.CatalogRepository

	mu         sync.Mutex
	items      map[uuid.UUID]domain.CatalogItem
	decrements map[uuid.UUID][]int
	// decrementErrs are returned by successive DecrementStock calls before it starts succeeding.
	decrementErrs []error
	findErr       error
}

func newFakeCatalog(items ...domain.CatalogItem) *fakeCatalog {
	c := &fakeCatalog{
		items:      make(map[uuid.UUID]domain.CatalogItem),
		decrements: make(map[uuid.UUID][]int),
	}
	for _, item := range items {
		c.items[item.ID] = item
	}

	return c
}

func (c *fakeCatalog) FindByIDsForUpdate(_ context.Context, ids []uuid.UUID) ([]domain.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.findErr != nil {
		return nil, c.findErr
	}

	var result []domain.CatalogItem
	for _, id := range ids {
		if item, ok := c.items[id]; ok && !item.IsDeleted {
			result = append(result, item)
		}
	}

	return result, nil
}

func (c *fakeCatalog) DecrementStock(_ context.Context, itemID uuid.UUID, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.decrementErrs) > 0 {
		err := c.decrementErrs[0]
		c.decrementErrs = c.decrementErrs[1:]
		return err
	}

	item := c.items[itemID]
	if item.StockQuantity < amount {
		return domain.ErrConflict
	}

	item.StockQuantity -= amount
	c.items[itemID] = item
	c.decrements[itemID] = append(c.decrements[itemID], amount)

	return nil
}

// fakeOrders records created orders. Unused methods panic.
type fakeOrders struct {
	port.OrderRepository

	mu      sync.Mutex
	created []domain.Order
}

func (o *fakeOrders) CreateOrderWithItems(_ context.Context, buyerID string, items []domain.OrderItem) (domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	order := domain.Order{
		ID:          uuid.New(),
		BuyerID:     buyerID,
		Items:       items,
		TotalAmount: domain.SumSubtotals(items, items[0].UnitPrice.Currency),
	}
	o.created = append(o.created, order)

	return order, nil
}

// fakeTransactor runs fn directly. Writes are not rolled back, tests only assert on committed attempts.
type fakeTransactor struct {
	catalog *fakeCatalog
	orders  *fakeOrders

	mu    sync.Mutex
	calls int
	// block makes WithinTx wait for the context instead of running fn.
	block bool
}

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepositories) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()

	if t.block {
		<-ctx.Done()
		return ctx.Err()
	}

	return fn(ctx, port.TxRepositories{
		Catalog: t.catalog,
		Orders:  t.orders,
	})
}

func (t *fakeTransactor) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.OrderPlaced
	err    error
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, event domain.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.events = append(p.events, event)
	return nil
}

func catalogItem(price string, unit currency.Unit, stock int) domain.CatalogItem {
	return domain.CatalogItem{
		ID:            uuid.New(),
		Title:         "book",
		Price:         domain.Money{Amount: decimal.RequireFromString(price), Currency: unit},
		StockQuantity: stock,
		GenreID:       uuid.New(),
	}
}

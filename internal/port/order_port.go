package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/fulfillment/internal/domain"
)

type OrderRepository interface {
	CreateOrderWithItems(ctx context.Context, buyerID string, items []domain.OrderItem) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, page domain.PageRequest) (domain.OrderPage, error)

	StreamOrderTotals(ctx context.Context, fn func(domain.OrderTotal) error) error
	CountPurchaseEventsByGenre(ctx context.Context) ([]domain.GenrePopularity, error)
}

package port

import (
	"context"

	"github.com/nikolayk812/fulfillment/internal/domain"
)

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error
}

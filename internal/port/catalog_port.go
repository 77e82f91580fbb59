package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/fulfillment/internal/domain"
)

type CatalogRepository interface {
	// FindByIDsForUpdate reads the non-deleted items among ids and locks them until the
	// surrounding transaction ends.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]domain.CatalogItem, error)
	// DecrementStock fails with domain.ErrConflict when the item no longer has amount in stock.
	DecrementStock(ctx context.Context, itemID uuid.UUID, amount int) error

	GetItem(ctx context.Context, itemID uuid.UUID) (domain.CatalogItem, error)
	CreateItem(ctx context.Context, item domain.CatalogItem) (uuid.UUID, error)
	UpdateItemGenre(ctx context.Context, itemID, genreID uuid.UUID) error
	SoftDeleteItem(ctx context.Context, itemID uuid.UUID) error

	CreateGenre(ctx context.Context, name string) (domain.Genre, error)
	GetGenre(ctx context.Context, genreID uuid.UUID) (domain.Genre, error)
	SoftDeleteGenre(ctx context.Context, genreID uuid.UUID) error
}

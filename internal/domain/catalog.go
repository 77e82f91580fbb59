package domain

import (
	"time"

	"github.com/google/uuid"
)

type Genre struct {
	ID   uuid.UUID
	Name string

	CreatedAt time.Time
	DeletedAt *time.Time
}

// CatalogItem is a purchasable book. Items referenced by orders are only ever soft-deleted.
type CatalogItem struct {
	ID            uuid.UUID
	Title         string
	Price         Money
	StockQuantity int
	GenreID       uuid.UUID
	IsDeleted     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

package domain

import (
	"github.com/google/uuid"
)

// GenrePopularity counts purchase events, one per order item, attributed to a genre.
type GenrePopularity struct {
	GenreID        uuid.UUID
	Name           string
	PurchaseEvents int
}

type Statistics struct {
	TotalOrders       int
	AverageOrderValue Money
	MostPopularGenre  *GenrePopularity
	LeastPopularGenre *GenrePopularity
}

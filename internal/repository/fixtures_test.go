package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func randomPrice(unit currency.Unit) domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: unit,
	}
}

func randomCatalogItem(genreID uuid.UUID, unit currency.Unit) domain.CatalogItem {
	return domain.CatalogItem{
		Title:         gofakeit.BookTitle(),
		Price:         randomPrice(unit),
		StockQuantity: gofakeit.Number(1, 50),
		GenreID:       genreID,
	}
}

// seedItem creates a genre-bound catalog item and returns it as stored.
func seedItem(ctx context.Context, t *testing.T, catalog port.CatalogRepository, item domain.CatalogItem) domain.CatalogItem {
	t.Helper()

	itemID, err := catalog.CreateItem(ctx, item)
	require.NoError(t, err)

	stored, err := catalog.GetItem(ctx, itemID)
	require.NoError(t, err)

	return stored
}

func seedGenre(ctx context.Context, t *testing.T, catalog port.CatalogRepository) domain.Genre {
	t.Helper()

	genre, err := catalog.CreateGenre(ctx, gofakeit.BookGenre()+" "+gofakeit.LetterN(6))
	require.NoError(t, err)

	return genre
}

func orderItemsFor(items ...domain.CatalogItem) []domain.OrderItem {
	result := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		result = append(result, domain.NewOrderItem(item.ID, item.Price, gofakeit.Number(1, 3)))
	}

	return result
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.OrderItem{}, "ID", "CreatedAt"),
		cmpopts.IgnoreFields(domain.Order{}, "ID", "CreatedAt"),
		cmpopts.EquateEmpty(),
		currencyComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.NotEqual(t, uuid.Nil, actual.ID)
	assert.False(t, actual.CreatedAt.IsZero())
	for _, item := range actual.Items {
		assert.NotEqual(t, uuid.Nil, item.ID)
	}
}

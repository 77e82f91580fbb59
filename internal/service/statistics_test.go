package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

type fakeOrderHistory struct {
	port.OrderRepository

	totals     []domain.OrderTotal
	popularity []domain.GenrePopularity
	streamErr  error
}

func (h *fakeOrderHistory) StreamOrderTotals(ctx context.Context, fn func(domain.OrderTotal) error) error {
	if h.streamErr != nil {
		return h.streamErr
	}

	for _, total := range h.totals {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(total); err != nil {
			return err
		}
	}

	return nil
}

func (h *fakeOrderHistory) CountPurchaseEventsByGenre(context.Context) ([]domain.GenrePopularity, error) {
	return h.popularity, nil
}

func genreID(last byte) uuid.UUID {
	var id uuid.UUID
	id[15] = last
	return id
}

func TestRankGenres(t *testing.T) {
	fiction := domain.GenrePopularity{GenreID: genreID(1), Name: "Fiction"}
	poetry := domain.GenrePopularity{GenreID: genreID(2), Name: "Poetry"}
	history := domain.GenrePopularity{GenreID: genreID(3), Name: "History"}

	with := func(g domain.GenrePopularity, events int) domain.GenrePopularity {
		g.PurchaseEvents = events
		return g
	}

	tests := []struct {
		name      string
		input     []domain.GenrePopularity
		wantMost  *domain.GenrePopularity
		wantLeast *domain.GenrePopularity
	}{
		{
			name: "no purchases: both nil",
		},
		{
			name:  "only zero counts: both nil",
			input: []domain.GenrePopularity{with(fiction, 0)},
		},
		{
			name:      "single genre: same on both ends",
			input:     []domain.GenrePopularity{with(poetry, 4)},
			wantMost:  &domain.GenrePopularity{GenreID: poetry.GenreID, Name: "Poetry", PurchaseEvents: 4},
			wantLeast: &domain.GenrePopularity{GenreID: poetry.GenreID, Name: "Poetry", PurchaseEvents: 4},
		},
		{
			name:      "distinct counts",
			input:     []domain.GenrePopularity{with(fiction, 2), with(history, 7), with(poetry, 5)},
			wantMost:  &domain.GenrePopularity{GenreID: history.GenreID, Name: "History", PurchaseEvents: 7},
			wantLeast: &domain.GenrePopularity{GenreID: fiction.GenreID, Name: "Fiction", PurchaseEvents: 2},
		},
		{
			name:      "tie on top goes to smallest id",
			input:     []domain.GenrePopularity{with(history, 3), with(poetry, 3), with(fiction, 1)},
			wantMost:  &domain.GenrePopularity{GenreID: poetry.GenreID, Name: "Poetry", PurchaseEvents: 3},
			wantLeast: &domain.GenrePopularity{GenreID: fiction.GenreID, Name: "Fiction", PurchaseEvents: 1},
		},
		{
			name:      "tie on bottom goes to smallest id",
			input:     []domain.GenrePopularity{with(history, 1), with(fiction, 9), with(poetry, 1)},
			wantMost:  &domain.GenrePopularity{GenreID: fiction.GenreID, Name: "Fiction", PurchaseEvents: 9},
			wantLeast: &domain.GenrePopularity{GenreID: poetry.GenreID, Name: "Poetry", PurchaseEvents: 1},
		},
		{
			name:      "all tied: smallest id on both ends",
			input:     []domain.GenrePopularity{with(history, 2), with(poetry, 2), with(fiction, 2)},
			wantMost:  &domain.GenrePopularity{GenreID: fiction.GenreID, Name: "Fiction", PurchaseEvents: 2},
			wantLeast: &domain.GenrePopularity{GenreID: fiction.GenreID, Name: "Fiction", PurchaseEvents: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]domain.GenrePopularity(nil), tt.input...)

			most, least := RankGenres(tt.input)

			assert.Equal(t, tt.wantMost, most)
			assert.Equal(t, tt.wantLeast, least)
			assert.Equal(t, input, tt.input, "input must not be reordered")
		})
	}
}

func TestAverageOrderValue(t *testing.T) {
	tests := []struct {
		name   string
		sum    string
		orders int
		want   string
	}{
		{name: "no orders", sum: "0", orders: 0, want: "0"},
		{name: "exact", sum: "90.00", orders: 3, want: "30.00"},
		{name: "quarter", sum: "10.00", orders: 8, want: "1.25"},
		{name: "repeating fraction", sum: "100.00", orders: 3, want: "33.33"},
		{name: "rounds up", sum: "20.00", orders: 3, want: "6.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageOrderValue(decimal.RequireFromString(tt.sum), tt.orders)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}

func TestComputeStatistics(t *testing.T) {
	usd := func(s string) domain.Money {
		return domain.Money{Amount: decimal.RequireFromString(s), Currency: currency.USD}
	}

	t.Run("no orders: zero values", func(t *testing.T) {
		aggregator, err := NewStatisticsAggregator(&fakeOrderHistory{}, currency.USD)
		require.NoError(t, err)

		stats, err := aggregator.ComputeStatistics(t.Context())
		require.NoError(t, err)

		assert.Zero(t, stats.TotalOrders)
		assert.True(t, stats.AverageOrderValue.Amount.IsZero())
		assert.Equal(t, currency.USD, stats.AverageOrderValue.Currency)
		assert.Nil(t, stats.MostPopularGenre)
		assert.Nil(t, stats.LeastPopularGenre)
	})

	t.Run("orders and genres: ok", func(t *testing.T) {
		history := &fakeOrderHistory{
			totals: []domain.OrderTotal{
				{OrderID: uuid.New(), Total: usd("30.00")},
				{OrderID: uuid.New(), Total: usd("10.00")},
				{OrderID: uuid.New(), Total: usd("0.99")},
			},
			popularity: []domain.GenrePopularity{
				{GenreID: genreID(2), Name: "Poetry", PurchaseEvents: 1},
				{GenreID: genreID(1), Name: "Fiction", PurchaseEvents: 3},
			},
		}

		aggregator, err := NewStatisticsAggregator(history, currency.USD)
		require.NoError(t, err)

		stats, err := aggregator.ComputeStatistics(t.Context())
		require.NoError(t, err)

		assert.Equal(t, 3, stats.TotalOrders)
		assert.True(t, stats.AverageOrderValue.Amount.Equal(decimal.RequireFromString("13.66")), stats.AverageOrderValue.Amount.String())
		require.NotNil(t, stats.MostPopularGenre)
		assert.Equal(t, "Fiction", stats.MostPopularGenre.Name)
		require.NotNil(t, stats.LeastPopularGenre)
		assert.Equal(t, "Poetry", stats.LeastPopularGenre.Name)
	})

	t.Run("storage failure: fail", func(t *testing.T) {
		aggregator, err := NewStatisticsAggregator(&fakeOrderHistory{streamErr: domain.ErrStorageUnavailable}, currency.USD)
		require.NoError(t, err)

		_, err = aggregator.ComputeStatistics(t.Context())
		require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("nil repo: fail", func(t *testing.T) {
		_, err := NewStatisticsAggregator(nil, currency.USD)
		require.EqualError(t, err, "repo is nil")
	})
}

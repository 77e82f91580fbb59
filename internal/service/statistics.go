package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/port"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
)

// StatisticsAggregator derives sales metrics from order history. It takes no locks, so an order
// committed while it runs may or may not be counted.
type StatisticsAggregator struct {
	repo          port.OrderRepository
	storeCurrency currency.Unit
	tracer        trace.Tracer
}

func NewStatisticsAggregator(repo port.OrderRepository, storeCurrency currency.Unit) (*StatisticsAggregator, error) {
	if repo == nil {
		return nil, errors.New("repo is nil")
	}

	return &StatisticsAggregator{
		repo:          repo,
		storeCurrency: storeCurrency,
		tracer:        tracer(),
	}, nil
}

func (a *StatisticsAggregator) ComputeStatistics(ctx context.Context) (domain.Statistics, error) {
	ctx, span := a.tracer.Start(ctx, "StatisticsAggregator.ComputeStatistics")
	defer span.End()

	var (
		totalOrders int
		sum         = decimal.Zero
		popularity  []domain.GenrePopularity
		warnOnce    sync.Once
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.repo.StreamOrderTotals(gctx, func(t domain.OrderTotal) error {
			if t.Total.Currency != a.storeCurrency {
				warnOnce.Do(func() {
					slog.Warn("order total in foreign currency counted at face value",
						"order_id", t.OrderID,
						"currency", t.Total.Currency.String(),
						"store_currency", a.storeCurrency.String())
				})
			}

			totalOrders++
			sum = sum.Add(t.Total.Amount)
			return nil
		})
	})

	g.Go(func() error {
		var err error
		popularity, err = a.repo.CountPurchaseEventsByGenre(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "statistics failed")
		return domain.Statistics{}, fmt.Errorf("g.Wait: %w", err)
	}

	most, least := RankGenres(popularity)

	stats := domain.Statistics{
		TotalOrders:       totalOrders,
		AverageOrderValue: domain.Money{Amount: AverageOrderValue(sum, totalOrders), Currency: a.storeCurrency},
		MostPopularGenre:  most,
		LeastPopularGenre: least,
	}

	span.SetAttributes(
		attribute.Int("statistics.total_orders", stats.TotalOrders),
		attribute.String("statistics.average_order_value", stats.AverageOrderValue.Amount.String()),
	)

	return stats, nil
}

// AverageOrderValue is rounded to cents and is zero when there are no orders.
func AverageOrderValue(sum decimal.Decimal, orders int) decimal.Decimal {
	if orders == 0 {
		return decimal.Zero
	}

	return sum.Div(decimal.NewFromInt(int64(orders))).Round(2)
}

// RankGenres returns the genres with the most and the fewest purchase events. Genres without
// events are ignored. Ties on either end go to the smallest genre id, so a single represented
// genre is both most and least popular. Both are nil when nothing was purchased.
func RankGenres(popularity []domain.GenrePopularity) (most, least *domain.GenrePopularity) {
	ranked := slices.DeleteFunc(slices.Clone(popularity), func(g domain.GenrePopularity) bool {
		return g.PurchaseEvents <= 0
	})

	if len(ranked) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(ranked, func(a, b domain.GenrePopularity) int {
		if a.PurchaseEvents != b.PurchaseEvents {
			return b.PurchaseEvents - a.PurchaseEvents
		}
		return bytes.Compare(a.GenreID[:], b.GenreID[:])
	})

	fewest := ranked[len(ranked)-1].PurchaseEvents
	leastIdx := slices.IndexFunc(ranked, func(g domain.GenrePopularity) bool {
		return g.PurchaseEvents == fewest
	})

	top := ranked[0]
	bottom := ranked[leastIdx]

	return &top, &bottom
}

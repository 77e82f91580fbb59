package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/fulfillment/internal/config"
	"github.com/nikolayk812/fulfillment/internal/db"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/messaging/kafka"
	"github.com/nikolayk812/fulfillment/internal/observability"
	"github.com/nikolayk812/fulfillment/internal/port"
	"github.com/nikolayk812/fulfillment/internal/repository"
	"github.com/nikolayk812/fulfillment/internal/service"
)

const usage = `usage: fulfillment <command> [flags]

commands:
  migrate                              apply the database schema
  buy -buyer ID ITEM_ID:QTY [...]      place an order
  order ORDER_ID                       show one order
  orders [-page N] [-limit N]          list orders, newest first
  stats                                show sales statistics`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("command failed", "command", os.Args[1], "err", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
		Endpoint:       cfg.OtelEndpoint,
		Insecure:       cfg.OtelInsecure,
	})
	if err != nil {
		slog.Warn("tracing disabled", "err", err)
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("tracing shutdown", "err", err)
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	switch command {
	case "migrate":
		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("db.Migrate: %w", err)
		}
		slog.Info("schema applied")
		return nil
	case "buy":
		return runBuy(ctx, cfg, pool, args)
	case "order":
		return runOrder(ctx, pool, args)
	case "orders":
		return runOrders(ctx, pool, args)
	case "stats":
		return runStats(ctx, cfg, pool)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func runBuy(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, args []string) error {
	fs := flag.NewFlagSet("buy", flag.ContinueOnError)
	buyerID := fs.String("buyer", "", "buyer id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lines, err := parseLines(fs.Args())
	if err != nil {
		return fmt.Errorf("parseLines: %w", err)
	}

	transactor, err := repository.NewTransactor(pool, repository.TxTimeouts{
		LockTimeout:      cfg.LockTimeout,
		StatementTimeout: cfg.StatementTimeout,
	})
	if err != nil {
		return fmt.Errorf("repository.NewTransactor: %w", err)
	}

	var publisher port.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		if err != nil {
			return fmt.Errorf("kafka.NewPublisher: %w", err)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	fulfillerCfg := service.DefaultFulfillerConfig()
	fulfillerCfg.MaxAttempts = cfg.FulfillMaxAttempts
	fulfillerCfg.Timeout = cfg.FulfillTimeout

	fulfiller, err := service.NewFulfiller(transactor, publisher, fulfillerCfg)
	if err != nil {
		return fmt.Errorf("service.NewFulfiller: %w", err)
	}

	order, err := fulfiller.Fulfill(ctx, domain.PurchaseRequest{BuyerID: *buyerID, Lines: lines})
	if err != nil {
		return fmt.Errorf("fulfiller.Fulfill: %w", err)
	}

	return printJSON(newOrderView(order))
}

func runOrder(ctx context.Context, pool *pgxpool.Pool, args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one order id")
	}

	orderID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("uuid.Parse[%s]: %w", args[0], err)
	}

	orders, err := service.NewOrders(repository.NewOrder(pool))
	if err != nil {
		return fmt.Errorf("service.NewOrders: %w", err)
	}

	order, err := orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("orders.GetOrder: %w", err)
	}

	return printJSON(newOrderView(order))
}

func runOrders(ctx context.Context, pool *pgxpool.Pool, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	page := fs.Int("page", domain.DefaultPage, "page number, 1-based")
	limit := fs.Int("limit", domain.DefaultLimit, "orders per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orders, err := service.NewOrders(repository.NewOrder(pool))
	if err != nil {
		return fmt.Errorf("service.NewOrders: %w", err)
	}

	result, err := orders.ListOrders(ctx, domain.PageRequest{Page: *page, Limit: *limit})
	if err != nil {
		return fmt.Errorf("orders.ListOrders: %w", err)
	}

	return printJSON(newOrderPageView(result))
}

func runStats(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) error {
	aggregator, err := service.NewStatisticsAggregator(repository.NewOrder(pool), cfg.StoreCurrency)
	if err != nil {
		return fmt.Errorf("service.NewStatisticsAggregator: %w", err)
	}

	stats, err := aggregator.ComputeStatistics(ctx)
	if err != nil {
		return fmt.Errorf("aggregator.ComputeStatistics: %w", err)
	}

	return printJSON(newStatisticsView(stats))
}

// parseLines reads ITEM_ID:QTY pairs.
func parseLines(args []string) ([]domain.PurchaseLine, error) {
	var lines []domain.PurchaseLine

	for _, arg := range args {
		rawID, rawQty, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("line[%s] is not ITEM_ID:QTY", arg)
		}

		itemID, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("uuid.Parse[%s]: %w", rawID, err)
		}

		qty, err := strconv.Atoi(rawQty)
		if err != nil {
			return nil, fmt.Errorf("strconv.Atoi[%s]: %w", rawQty, err)
		}

		lines = append(lines, domain.PurchaseLine{CatalogItemID: itemID, Quantity: qty})
	}

	return lines, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

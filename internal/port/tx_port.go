package port

import (
	"context"
)

// TxRepositories are bound to a single transaction.
type TxRepositories struct {
	Catalog CatalogRepository
	Orders  OrderRepository
}

// Transactor runs fn atomically: every write made through repos commits together or not at all.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

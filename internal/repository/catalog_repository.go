package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/fulfillment/internal/db"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewCatalogWithTx(tx pgx.Tx) port.CatalogRepository {
	return &catalogRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

// FindByIDsForUpdate only holds the locks when called on a transaction-bound repository.
func (r *catalogRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]domain.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.q.LockCatalogItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.LockCatalogItems: %w", classifyError(ctx, err))
	}

	items, err := mapDBCatalogItemsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapDBCatalogItemsToDomain: %w", err)
	}

	return items, nil
}

func (r *catalogRepository) DecrementStock(ctx context.Context, itemID uuid.UUID, amount int) error {
	if itemID == uuid.Nil {
		return fmt.Errorf("%w: itemID is empty", domain.ErrInvalidRequest)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", domain.ErrInvalidRequest, amount)
	}

	cmdTag, err := r.q.DecrementStock(ctx, db.DecrementStockParams{
		Amount: int32(amount),
		ID:     itemID,
	})
	if err != nil {
		return fmt.Errorf("q.DecrementStock: %w", classifyError(ctx, err))
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DecrementStock: item[%s]: %w", itemID, domain.ErrConflict)
	}

	return nil
}

func (r *catalogRepository) GetItem(ctx context.Context, itemID uuid.UUID) (domain.CatalogItem, error) {
	var i domain.CatalogItem

	row, err := r.q.GetCatalogItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return i, fmt.Errorf("q.GetCatalogItem: %w", &domain.ItemNotFoundError{MissingIDs: []uuid.UUID{itemID}})
		}
		return i, fmt.Errorf("q.GetCatalogItem: %w", classifyError(ctx, err))
	}

	item, err := mapDBCatalogItemToDomain(row)
	if err != nil {
		return i, fmt.Errorf("mapDBCatalogItemToDomain: %w", err)
	}

	return item, nil
}

func (r *catalogRepository) CreateItem(ctx context.Context, item domain.CatalogItem) (uuid.UUID, error) {
	if err := validateCatalogItem(item); err != nil {
		return uuid.Nil, err
	}

	itemID, err := r.q.InsertCatalogItem(ctx, db.InsertCatalogItemParams{
		Title:         item.Title,
		PriceAmount:   item.Price.Amount,
		PriceCurrency: item.Price.Currency.String(),
		StockQuantity: int32(item.StockQuantity),
		GenreID:       item.GenreID,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return uuid.Nil, fmt.Errorf("q.InsertCatalogItem: genre[%s]: %w", item.GenreID, domain.ErrGenreNotFound)
		}
		return uuid.Nil, fmt.Errorf("q.InsertCatalogItem: %w", classifyError(ctx, err))
	}

	return itemID, nil
}

func (r *catalogRepository) UpdateItemGenre(ctx context.Context, itemID, genreID uuid.UUID) error {
	if itemID == uuid.Nil || genreID == uuid.Nil {
		return fmt.Errorf("%w: itemID or genreID is empty", domain.ErrInvalidRequest)
	}

	cmdTag, err := r.q.UpdateCatalogItemGenre(ctx, db.UpdateCatalogItemGenreParams{
		ID:      itemID,
		GenreID: genreID,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("q.UpdateCatalogItemGenre: genre[%s]: %w", genreID, domain.ErrGenreNotFound)
		}
		return fmt.Errorf("q.UpdateCatalogItemGenre: %w", classifyError(ctx, err))
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateCatalogItemGenre: %w", &domain.ItemNotFoundError{MissingIDs: []uuid.UUID{itemID}})
	}

	return nil
}

func (r *catalogRepository) SoftDeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return fmt.Errorf("%w: itemID is empty", domain.ErrInvalidRequest)
	}

	cmdTag, err := r.q.SoftDeleteCatalogItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("q.SoftDeleteCatalogItem: %w", classifyError(ctx, err))
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.SoftDeleteCatalogItem: %w", &domain.ItemNotFoundError{MissingIDs: []uuid.UUID{itemID}})
	}

	return nil
}

func (r *catalogRepository) CreateGenre(ctx context.Context, name string) (domain.Genre, error) {
	if name == "" {
		return domain.Genre{}, fmt.Errorf("%w: genre name is empty", domain.ErrInvalidRequest)
	}

	row, err := r.q.CreateGenre(ctx, name)
	if err != nil {
		return domain.Genre{}, fmt.Errorf("q.CreateGenre: %w", classifyError(ctx, err))
	}

	return mapDBGenreToDomain(row), nil
}

func (r *catalogRepository) GetGenre(ctx context.Context, genreID uuid.UUID) (domain.Genre, error) {
	row, err := r.q.GetGenre(ctx, genreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Genre{}, fmt.Errorf("q.GetGenre: %w", domain.ErrGenreNotFound)
		}
		return domain.Genre{}, fmt.Errorf("q.GetGenre: %w", classifyError(ctx, err))
	}

	return mapDBGenreToDomain(row), nil
}

// SoftDeleteGenre refuses while non-deleted catalog items still reference the genre.
func (r *catalogRepository) SoftDeleteGenre(ctx context.Context, genreID uuid.UUID) error {
	if genreID == uuid.Nil {
		return fmt.Errorf("%w: genreID is empty", domain.ErrInvalidRequest)
	}

	_, err := withTx(ctx, r.dbtx, func(q *db.Queries) (struct{}, error) {
		activeItems, err := q.CountActiveItemsByGenre(ctx, genreID)
		if err != nil {
			return struct{}{}, fmt.Errorf("q.CountActiveItemsByGenre: %w", err)
		}

		if activeItems > 0 {
			return struct{}{}, fmt.Errorf("genre[%s] has %d items: %w", genreID, activeItems, domain.ErrGenreInUse)
		}

		cmdTag, err := q.SoftDeleteGenre(ctx, genreID)
		if err != nil {
			return struct{}{}, fmt.Errorf("q.SoftDeleteGenre: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return struct{}{}, fmt.Errorf("q.SoftDeleteGenre: %w", domain.ErrGenreNotFound)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", classifyError(ctx, err))
	}

	return nil
}

func validateCatalogItem(item domain.CatalogItem) error {
	switch {
	case item.Title == "":
		return fmt.Errorf("%w: title is empty", domain.ErrInvalidRequest)
	case item.GenreID == uuid.Nil:
		return fmt.Errorf("%w: genreID is empty", domain.ErrInvalidRequest)
	case item.Price.Amount.IsNegative():
		return fmt.Errorf("%w: price is negative", domain.ErrInvalidRequest)
	case item.StockQuantity < 0:
		return fmt.Errorf("%w: stock quantity is negative", domain.ErrInvalidRequest)
	}

	return nil
}

func mapDBCatalogItemToDomain(row db.CatalogItem) (domain.CatalogItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CatalogItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CatalogItem{
		ID:            row.ID,
		Title:         row.Title,
		Price:         domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		StockQuantity: int(row.StockQuantity),
		GenreID:       row.GenreID,
		IsDeleted:     row.IsDeleted,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func mapDBCatalogItemsToDomain(rows []db.CatalogItem) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem

	for _, row := range rows {
		item, err := mapDBCatalogItemToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapDBCatalogItemToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapDBGenreToDomain(row db.Genre) domain.Genre {
	return domain.Genre{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		DeletedAt: row.DeletedAt,
	}
}

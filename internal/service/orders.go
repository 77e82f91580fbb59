package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/nikolayk812/fulfillment/internal/port"
)

// Orders exposes read access to placed orders.
type Orders struct {
	repo port.OrderRepository
}

func NewOrders(repo port.OrderRepository) (*Orders, error) {
	if repo == nil {
		return nil, errors.New("repo is nil")
	}

	return &Orders{repo: repo}, nil
}

func (s *Orders) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	if orderID == uuid.Nil {
		return domain.Order{}, fmt.Errorf("%w: orderID is empty", domain.ErrInvalidRequest)
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("repo.GetOrder: %w", err)
	}

	return order, nil
}

// ListOrders fills zero page fields with defaults before validating.
func (s *Orders) ListOrders(ctx context.Context, page domain.PageRequest) (domain.OrderPage, error) {
	if page.Page == 0 {
		page.Page = domain.DefaultPage
	}
	if page.Limit == 0 {
		page.Limit = domain.DefaultLimit
	}

	if err := page.Validate(); err != nil {
		return domain.OrderPage{}, fmt.Errorf("page.Validate: %w", err)
	}

	result, err := s.repo.ListOrders(ctx, page)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("repo.ListOrders: %w", err)
	}

	return result, nil
}

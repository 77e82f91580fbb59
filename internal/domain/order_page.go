package domain

import (
	"fmt"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidRequest, p.Page)
	}

	if p.Limit < 1 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be in [1, %d], got %d", ErrInvalidRequest, MaxLimit, p.Limit)
	}

	return nil
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type OrderPage struct {
	Items      []Order
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func NewOrderPage(items []Order, req PageRequest, total int) OrderPage {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}

	return OrderPage{
		Items:      items,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

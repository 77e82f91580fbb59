package main

import (
	"time"

	"github.com/nikolayk812/fulfillment/internal/domain"
)

type moneyView struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type orderItemView struct {
	ID            string    `json:"id"`
	CatalogItemID string    `json:"catalogItemId"`
	Quantity      int       `json:"quantity"`
	UnitPrice     moneyView `json:"unitPrice"`
	Subtotal      moneyView `json:"subtotal"`
}

type orderView struct {
	ID          string          `json:"id"`
	BuyerID     string          `json:"buyerId"`
	Items       []orderItemView `json:"items"`
	TotalAmount moneyView       `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type orderPageView struct {
	Items      []orderView `json:"items"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
}

type genreView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PurchaseEvents int    `json:"purchaseEvents"`
}

type statisticsView struct {
	TotalOrders       int        `json:"totalOrders"`
	AverageOrderValue moneyView  `json:"averageOrderValue"`
	MostPopularGenre  *genreView `json:"mostPopularGenre"`
	LeastPopularGenre *genreView `json:"leastPopularGenre"`
}

func newMoneyView(m domain.Money) moneyView {
	return moneyView{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency.String(),
	}
}

func newOrderView(order domain.Order) orderView {
	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			ID:            item.ID.String(),
			CatalogItemID: item.CatalogItemID.String(),
			Quantity:      item.Quantity,
			UnitPrice:     newMoneyView(item.UnitPrice),
			Subtotal:      newMoneyView(item.Subtotal),
		})
	}

	return orderView{
		ID:          order.ID.String(),
		BuyerID:     order.BuyerID,
		Items:       items,
		TotalAmount: newMoneyView(order.TotalAmount),
		CreatedAt:   order.CreatedAt,
	}
}

func newOrderPageView(page domain.OrderPage) orderPageView {
	items := make([]orderView, 0, len(page.Items))
	for _, order := range page.Items {
		items = append(items, newOrderView(order))
	}

	return orderPageView{
		Items:      items,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}

func newGenreView(g *domain.GenrePopularity) *genreView {
	if g == nil {
		return nil
	}

	return &genreView{
		ID:             g.GenreID.String(),
		Name:           g.Name,
		PurchaseEvents: g.PurchaseEvents,
	}
}

func newStatisticsView(stats domain.Statistics) statisticsView {
	return statisticsView{
		TotalOrders:       stats.TotalOrders,
		AverageOrderValue: newMoneyView(stats.AverageOrderValue),
		MostPopularGenre:  newGenreView(stats.MostPopularGenre),
		LeastPopularGenre: newGenreView(stats.LeastPopularGenre),
	}
}

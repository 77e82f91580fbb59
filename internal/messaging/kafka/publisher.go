package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/fulfillment/internal/domain"
	"github.com/shopspring/decimal"
	kafkaGo "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// Publisher writes OrderPlaced events keyed by order id, so all events of one order land in one partition.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("brokers are empty")
	}
	if topic == "" {
		return nil, errors.New("topic is empty")
	}

	return newPublisher(&kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkaGo.Hash{},
		RequiredAcks: kafkaGo.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}), nil
}

func newPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

type orderPlacedMessage struct {
	OrderID     uuid.UUID                `json:"order_id"`
	BuyerID     string                   `json:"buyer_id"`
	Items       []orderPlacedMessageItem `json:"items"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
	Currency    string                   `json:"currency"`
	PlacedAt    time.Time                `json:"placed_at"`
}

type orderPlacedMessageItem struct {
	CatalogItemID uuid.UUID       `json:"catalog_item_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	payload, err := json.Marshal(mapOrderPlacedToMessage(event))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	msg := kafkaGo.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: "event_type", Value: []byte("OrderPlaced")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func mapOrderPlacedToMessage(event domain.OrderPlaced) orderPlacedMessage {
	items := make([]orderPlacedMessageItem, 0, len(event.Items))
	for _, item := range event.Items {
		items = append(items, orderPlacedMessageItem{
			CatalogItemID: item.CatalogItemID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice.Amount,
			Subtotal:      item.Subtotal.Amount,
		})
	}

	return orderPlacedMessage{
		OrderID:     event.OrderID,
		BuyerID:     event.BuyerID,
		Items:       items,
		TotalAmount: event.TotalAmount.Amount,
		Currency:    event.TotalAmount.Currency.String(),
		PlacedAt:    event.PlacedAt,
	}
}

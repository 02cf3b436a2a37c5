// internal/infrastructure/messaging/kafka/publisher.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/config"
	"github.com/your-org/gamestore/internal/domain/order"
)

// EventOrderPlaced is the event type carried in every message
const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is the JSON payload published after a checkout commits
type OrderPlacedEvent struct {
	Type        string            `json:"type"`
	OrderID     uint              `json:"order_id"`
	UserID      uint              `json:"user_id"`
	TotalAmount string            `json:"total_amount"`
	Items       []OrderPlacedItem `json:"items"`
	OrderDate   time.Time         `json:"order_date"`
}

// OrderPlacedItem is one line of an OrderPlacedEvent
type OrderPlacedItem struct {
	GameID    uint   `json:"game_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPublisher writes order events to a Kafka topic
type OrderPublisher struct {
	writer messageWriter
	log    logrus.FieldLogger
}

// NewOrderPublisher creates a publisher for the configured brokers and topic
func NewOrderPublisher(cfg config.KafkaConfig, log logrus.FieldLogger) *OrderPublisher {
	return &OrderPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.OrderTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
		log: log,
	}
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise. The returned close func is always safe to call.
func NewPublisher(cfg config.KafkaConfig, log logrus.FieldLogger) (order.EventPublisher, func() error) {
	if len(cfg.Brokers) == 0 {
		log.Info("kafka brokers not configured, order events disabled")
		return order.NoopPublisher{}, func() error { return nil }
	}
	p := NewOrderPublisher(cfg, log)
	return p, p.Close
}

// PublishOrderPlaced writes one message keyed by order id
func (p *OrderPublisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	value, err := json.Marshal(newOrderPlacedEvent(o))
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%d", o.ID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.log.WithField("order_id", o.ID).Debug("order event published")
	return nil
}

// Close flushes pending messages
func (p *OrderPublisher) Close() error {
	return p.writer.Close()
}

func newOrderPlacedEvent(o *order.Order) OrderPlacedEvent {
	items := make([]OrderPlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderPlacedItem{
			GameID:    it.GameID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
		})
	}
	return OrderPlacedEvent{
		Type:        EventOrderPlaced,
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Items:       items,
		OrderDate:   o.CreatedAt,
	}
}

// Package mq publishes storefront events to Kafka.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 100 * time.Millisecond
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// messageWriter is the part of kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPlacedEvent is the message body for a completed checkout.
type OrderPlacedEvent struct {
	EventID    string           `json:"event_id"`
	SessionID  string           `json:"session_id"`
	OrderID    string           `json:"order_id"`
	PlacedAt   time.Time        `json:"placed_at"`
	ItemCount  int              `json:"item_count"`
	CouponCode string           `json:"coupon_code,omitempty"`
	Discount   string           `json:"discount"`
	Total      string           `json:"total"`
	Items      []OrderEventLine `json:"items"`
}

type OrderEventLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func NewOrderPlacedEvent(sessionID string, order checkout.Order) OrderPlacedEvent {
	event := OrderPlacedEvent{
		EventID:    uuid.NewString(),
		SessionID:  sessionID,
		OrderID:    order.ID,
		PlacedAt:   order.CreatedAt.UTC(),
		ItemCount:  order.ItemCount(),
		CouponCode: order.CouponCode,
		Discount:   order.Discount.StringFixed(2),
		Total:      order.Total.StringFixed(2),
		Items:      make([]OrderEventLine, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, OrderEventLine{
			ProductID: item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
		})
	}
	return event
}

type OrderProducer struct {
	writer messageWriter
	topic  string
}

func NewOrderProducer(cfg KafkaConfig) *OrderProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		AllowAutoTopicCreation: true,
		Balancer:               &kafka.Hash{},
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            defaultMaxAttempts,
		WriteBackoffMin:        defaultRetryBackoff,
		WriteBackoffMax:        10 * defaultRetryBackoff,
	}

	logger.Info("Kafka order producer created", map[string]interface{}{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	})
	return &OrderProducer{writer: writer, topic: cfg.Topic}
}

func newOrderProducerWithWriter(w messageWriter, topic string) *OrderProducer {
	return &OrderProducer{writer: w, topic: topic}
}

// PublishOrderPlaced keys the message by session id so one shopper's orders
// stay on one partition, in order.
func (p *OrderProducer) PublishOrderPlaced(ctx context.Context, sessionID string, order checkout.Order) error {
	data, err := json.Marshal(NewOrderPlacedEvent(sessionID, order))
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(sessionID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.placed")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error("Failed to send Kafka message", err, map[string]interface{}{
			"topic":    p.topic,
			"order_id": order.ID,
		})
		return err
	}

	logger.Debug("Kafka message sent", map[string]interface{}{
		"topic":    p.topic,
		"order_id": order.ID,
	})
	return nil
}

func (p *OrderProducer) Close() error {
	return p.writer.Close()
}

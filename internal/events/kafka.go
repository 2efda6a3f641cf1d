package events

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"storefront-backend/internal/domain"
)

// TopicOrderCreated carries order-created events when a broker is
// configured.
const TopicOrderCreated = "order-created"

// Publisher emits order events to an external consumer.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order domain.Order) error
	Close() error
}

// KafkaPublisher writes order events to Kafka, keyed by order number so
// events for one order land on one partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *log.Logger
}

// NewKafkaPublisher builds a publisher for the given brokers.
func NewKafkaPublisher(brokers []string, logger *log.Logger) *KafkaPublisher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicOrderCreated,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	value, err := json.Marshal(order)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(order.OrderNumber),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Printf("events: kafka publish order=%s error=%v", order.OrderNumber, err)
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

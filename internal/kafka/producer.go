package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

// Producer handles publishing pipeline events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishIndicatorsCalculated announces that an indicator run finished
func (p *Producer) PublishIndicatorsCalculated(ctx context.Context, date time.Time, count int64) error {
	dateStr := date.Format("2006-01-02")
	event := models.IndicatorRunEvent{
		EventType: models.EventTypeIndicatorsCalculated,
		Date:      dateStr,
		Count:     count,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, dateStr, event)
}

// PublishHotStockDetected publishes one screened hot stock
func (p *Producer) PublishHotStockDetected(ctx context.Context, hotStock *models.HotStock) error {
	event := models.HotStockEvent{
		EventType: models.EventTypeHotStockDetected,
		Symbol:    hotStock.Symbol,
		HotStock:  hotStock,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, hotStock.Symbol, event)
}

func (p *Producer) publish(ctx context.Context, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

// PriceBarRepository defines the database operations the consumer needs
type PriceBarRepository interface {
	CreatePriceBar(p *models.PriceBar) error
}

// Consumer ingests daily price bars published by upstream fetchers. Bars are
// upserted keyed by (symbol, date), so redelivered messages are harmless.
type Consumer struct {
	reader *kafka.Reader
	repo   PriceBarRepository
}

// NewConsumer creates a new Kafka consumer for price bar events
func NewConsumer(brokers []string, topic, groupID string, repo PriceBarRepository) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting Kafka consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading message: %v", err)
				continue
			}

			if err := c.processMessage(msg); err != nil {
				log.Printf("Error processing message: %v", err)
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(msg kafka.Message) error {
	var event models.PriceBarEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal price bar event: %w", err)
	}

	if event.EventType != models.EventTypePriceBar {
		log.Printf("Ignoring event type: %s", event.EventType)
		return nil
	}

	bar, err := c.convertEventToPriceBar(event)
	if err != nil {
		return fmt.Errorf("failed to convert event to price bar: %w", err)
	}

	if err := c.repo.CreatePriceBar(bar); err != nil {
		return fmt.Errorf("failed to save price bar: %w", err)
	}

	return nil
}

// convertEventToPriceBar maps a PriceBarEvent to a PriceBar model
func (c *Consumer) convertEventToPriceBar(event models.PriceBarEvent) (*models.PriceBar, error) {
	if event.Symbol == "" {
		return nil, fmt.Errorf("price bar event missing symbol")
	}

	date, err := time.Parse("2006-01-02", event.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %s: %w", event.Date, err)
	}

	open, err := decimal.NewFromString(event.Open)
	if err != nil {
		return nil, fmt.Errorf("invalid open %s: %w", event.Open, err)
	}
	high, err := decimal.NewFromString(event.High)
	if err != nil {
		return nil, fmt.Errorf("invalid high %s: %w", event.High, err)
	}
	low, err := decimal.NewFromString(event.Low)
	if err != nil {
		return nil, fmt.Errorf("invalid low %s: %w", event.Low, err)
	}
	closePrice, err := decimal.NewFromString(event.Close)
	if err != nil {
		return nil, fmt.Errorf("invalid close %s: %w", event.Close, err)
	}

	if event.Volume < 0 {
		return nil, fmt.Errorf("invalid volume %d", event.Volume)
	}

	return &models.PriceBar{
		Symbol: event.Symbol,
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: event.Volume,
	}, nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}

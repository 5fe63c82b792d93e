package models

import "time"

// Event type constants for Kafka messages
const (
	EventTypePriceBar             = "PRICE_BAR"
	EventTypeIndicatorsCalculated = "INDICATORS_CALCULATED"
	EventTypeHotStockDetected     = "HOT_STOCK_DETECTED"
)

// PriceBarEvent carries one daily OHLCV bar. Prices are transmitted as
// strings so no precision is lost through JSON float encoding.
type PriceBarEvent struct {
	EventType string    `json:"event_type"`
	Symbol    string    `json:"symbol"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Open      string    `json:"open"`
	High      string    `json:"high"`
	Low       string    `json:"low"`
	Close     string    `json:"close"`
	Volume    int64     `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// IndicatorRunEvent announces that an indicator calculation run finished
// for a trading date.
type IndicatorRunEvent struct {
	EventType string    `json:"event_type"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Count     int64     `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// HotStockEvent announces a stock that passed the hot-stock screen.
type HotStockEvent struct {
	EventType string    `json:"event_type"`
	Symbol    string    `json:"symbol"`
	HotStock  *HotStock `json:"hot_stock,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

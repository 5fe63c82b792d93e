package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// IndicatorRecord holds the full set of calculated indicators for one
// (symbol, date). Every metric is independently nullable: an invalid value
// means the symbol did not have enough history for that particular window,
// not that the metric was zero.
type IndicatorRecord struct {
	ID     int       `json:"id"`
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`

	// Simple moving averages of close over the most recent N bars
	SMA5   decimal.NullDecimal `json:"sma5"`
	SMA10  decimal.NullDecimal `json:"sma10"`
	SMA20  decimal.NullDecimal `json:"sma20"`
	SMA50  decimal.NullDecimal `json:"sma50"`
	SMA100 decimal.NullDecimal `json:"sma100"`
	SMA200 decimal.NullDecimal `json:"sma200"`

	// The same windows shifted back one session (what the SMA was yesterday)
	SMA5Prev   decimal.NullDecimal `json:"sma5s1"`
	SMA10Prev  decimal.NullDecimal `json:"sma10s1"`
	SMA20Prev  decimal.NullDecimal `json:"sma20s1"`
	SMA50Prev  decimal.NullDecimal `json:"sma50s1"`
	SMA100Prev decimal.NullDecimal `json:"sma100s1"`
	SMA200Prev decimal.NullDecimal `json:"sma200s1"`

	// Volatility and liquidity
	ADR20 decimal.NullDecimal `json:"adr20"` // average daily range %, 20 days
	AVD20 decimal.NullDecimal `json:"avd20"` // average dollar volume, 20 days
	ATR14 decimal.NullDecimal `json:"atr14"` // Wilder average true range, 14 days

	// Volume surge ratios: sum of recent N days over longer-window average
	A130 decimal.NullDecimal `json:"a130"` // 1 day vs 30-day average
	A260 decimal.NullDecimal `json:"a260"` // 2 days vs 60-day average
	A390 decimal.NullDecimal `json:"a390"` // 3 days vs 90-day average

	// Rolling high closes with the date they occurred
	FTWH     decimal.NullDecimal `json:"ftwh"` // 52-week high close
	FTWHDate sql.NullTime        `json:"ftwhdate"`
	TSWH     decimal.NullDecimal `json:"tswh"` // 6-month high close
	TSWHDate sql.NullTime        `json:"tswhdate"`

	CreatedAt time.Time `json:"created_at"`
}

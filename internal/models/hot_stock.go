package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HotStock represents a stock flagged by the screener: up sharply on the most
// recent session with volume well above its 30-day average.
type HotStock struct {
	ID             int             `json:"id"`
	Symbol         string          `json:"symbol"`
	Date           time.Time       `json:"date"`
	Open           decimal.Decimal `json:"open"`
	Close          decimal.Decimal `json:"close"`
	PriceChangePct decimal.Decimal `json:"price_change_pct"`
	Volume         int64           `json:"volume"`
	VolumeRatio    decimal.Decimal `json:"volume_ratio"`
	CreatedAt      time.Time       `json:"created_at"`
}

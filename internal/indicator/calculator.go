package indicator

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

const (
	// MinHistoryBars is the minimum primary history required before any
	// record is produced for a symbol.
	MinHistoryBars = 200

	// PrimaryLookbackBars is how many recent bars feed the SMA, volatility
	// and volume metrics.
	PrimaryLookbackBars = 250

	// HighsLookbackBars is the wider fetch used for the 52-week and 6-month
	// high-water marks.
	HighsLookbackBars = 420

	fiftyTwoWeekDays = 365
	sixMonthDays     = 182
)

// PriceHistory supplies daily bars for the calculator. Implemented by
// database.DB.
type PriceHistory interface {
	// GetPriceHistory returns up to limit bars for symbol, most recent first.
	GetPriceHistory(symbol string, limit int) ([]*models.PriceBar, error)
	// GetLatestDate returns the most recent trading date across all symbols.
	GetLatestDate() (time.Time, error)
	// GetSymbolsOn returns all symbols that have a bar on the given date.
	GetSymbolsOn(date time.Time) ([]string, error)
}

// Calculator assembles one IndicatorRecord per symbol and target date.
type Calculator struct {
	history PriceHistory
}

// NewCalculator creates a Calculator backed by the given price history.
func NewCalculator(history PriceHistory) *Calculator {
	return &Calculator{history: history}
}

// CalculateForSymbol computes the full indicator record for one symbol as of
// targetDate. A symbol with fewer than MinHistoryBars of history yields
// (nil, nil): insufficient history is expected, not an error. Retrieval
// failures are logged and likewise yield no record so that one bad symbol
// never aborts a batch run.
func (c *Calculator) CalculateForSymbol(symbol string, targetDate time.Time) (*models.IndicatorRecord, error) {
	bars, err := c.history.GetPriceHistory(symbol, PrimaryLookbackBars)
	if err != nil {
		log.Printf("skipping %s: price history unavailable: %v", symbol, err)
		return nil, nil
	}
	if len(bars) < MinHistoryBars {
		return nil, nil
	}

	closes, highs, lows, volumes := extractSeries(bars)
	if len(closes) == 0 || len(highs) == 0 || len(lows) == 0 || len(volumes) == 0 {
		return nil, nil
	}

	rec := &models.IndicatorRecord{
		Symbol: symbol,
		Date:   targetDate,
	}

	rec.SMA5 = SMA(closes, 5)
	rec.SMA10 = SMA(closes, 10)
	rec.SMA20 = SMA(closes, 20)
	rec.SMA50 = SMA(closes, 50)
	rec.SMA100 = SMA(closes, 100)
	rec.SMA200 = SMA(closes, 200)

	rec.SMA5Prev = SMAPrev(closes, 5)
	rec.SMA10Prev = SMAPrev(closes, 10)
	rec.SMA20Prev = SMAPrev(closes, 20)
	rec.SMA50Prev = SMAPrev(closes, 50)
	rec.SMA100Prev = SMAPrev(closes, 100)
	rec.SMA200Prev = SMAPrev(closes, 200)

	rec.ADR20 = ADR20(highs, lows)
	rec.AVD20 = AVD20(closes, volumes)
	rec.ATR14 = ATR14(toFloats(highs), toFloats(lows), toFloats(closes))

	rec.A130 = VolumeRatio(volumes, 1, 30)
	rec.A260 = VolumeRatio(volumes, 2, 60)
	rec.A390 = VolumeRatio(volumes, 3, 90)

	if err := c.calculateHighs(rec, symbol, targetDate); err != nil {
		log.Printf("skipping highs for %s: %v", symbol, err)
	}

	return rec, nil
}

// calculateHighs fills in the 52-week and 6-month high closes from a wider
// lookback fetch. A missing series leaves the fields null; the rest of the
// record still stands.
func (c *Calculator) calculateHighs(rec *models.IndicatorRecord, symbol string, targetDate time.Time) error {
	bars, err := c.history.GetPriceHistory(symbol, HighsLookbackBars)
	if err != nil {
		return fmt.Errorf("fetching high-water history: %w", err)
	}
	if len(bars) == 0 {
		return nil
	}

	// GetPriceHistory returns newest-first; the rolling-high scan needs
	// chronological order so ties resolve to the earliest date.
	chrono := make([]*models.PriceBar, len(bars))
	for i, b := range bars {
		chrono[len(bars)-1-i] = b
	}

	rec.FTWH, rec.FTWHDate = RollingHigh(chrono, targetDate, fiftyTwoWeekDays)
	rec.TSWH, rec.TSWHDate = RollingHigh(chrono, targetDate, sixMonthDays)
	return nil
}

// extractSeries pulls the per-field series out of the bars, most recent
// first, dropping null and zero entries the way the store's truthiness
// filter did.
func extractSeries(bars []*models.PriceBar) (closes, highs, lows []decimal.Decimal, volumes []int64) {
	for _, b := range bars {
		if !b.Close.IsZero() {
			closes = append(closes, b.Close)
		}
		if !b.High.IsZero() {
			highs = append(highs, b.High)
		}
		if !b.Low.IsZero() {
			lows = append(lows, b.Low)
		}
		if b.Volume != 0 {
			volumes = append(volumes, b.Volume)
		}
	}
	return closes, highs, lows, volumes
}

func toFloats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

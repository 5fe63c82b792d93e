package indicator

import (
	"database/sql"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

// SMA windows calculated for every indicator record
var SMAWindows = []int{5, 10, 20, 50, 100, 200}

var (
	decimalZero = decimal.NewFromInt(0)
	hundred     = decimal.NewFromInt(100)
)

// SMA computes the simple moving average of the most recent `window` closes.
// Input is ordered most-recent-first. Sums use exact decimal arithmetic and
// the quotient is rounded half-up to 2 decimal places in a single step.
// Returns an invalid decimal when fewer than `window` values exist.
func SMA(closes []decimal.Decimal, window int) decimal.NullDecimal {
	if window <= 0 || len(closes) < window {
		return decimal.NullDecimal{}
	}
	total := decimalZero
	for _, c := range closes[:window] {
		total = total.Add(c)
	}
	avg := total.DivRound(decimal.NewFromInt(int64(window)), 2)
	return decimal.NullDecimal{Decimal: avg, Valid: true}
}

// SMAPrev computes the SMA the same window would have produced as of the
// previous session: it sums closes at offsets [1, window], skipping the most
// recent bar. Requires window+1 values.
func SMAPrev(closes []decimal.Decimal, window int) decimal.NullDecimal {
	if window <= 0 || len(closes) < window+1 {
		return decimal.NullDecimal{}
	}
	return SMA(closes[1:], window)
}

// ADR20 computes the Average Daily Range over the 20 most recent bars,
// expressed as a percentage (mean of high-low, times 100). Both series are
// most-recent-first and must supply at least 20 values each.
func ADR20(highs, lows []decimal.Decimal) decimal.NullDecimal {
	if len(highs) < 20 || len(lows) < 20 {
		return decimal.NullDecimal{}
	}
	total := decimalZero
	for i := 0; i < 20; i++ {
		total = total.Add(highs[i].Sub(lows[i]))
	}
	avg := total.Mul(hundred).DivRound(decimal.NewFromInt(20), 2)
	return decimal.NullDecimal{Decimal: avg, Valid: true}
}

// AVD20 computes the Average Dollar Volume over the 20 most recent bars:
// mean close times mean volume. Computed as (sum close * sum volume) / 400 so
// rounding happens exactly once.
func AVD20(closes []decimal.Decimal, volumes []int64) decimal.NullDecimal {
	if len(closes) < 20 || len(volumes) < 20 {
		return decimal.NullDecimal{}
	}
	totalClose := decimalZero
	for _, c := range closes[:20] {
		totalClose = totalClose.Add(c)
	}
	var totalVolume int64
	for _, v := range volumes[:20] {
		totalVolume += v
	}
	dollarVolume := totalClose.Mul(decimal.NewFromInt(totalVolume)).DivRound(decimal.NewFromInt(400), 2)
	return decimal.NullDecimal{Decimal: dollarVolume, Valid: true}
}

// ATR14 computes the 14-day Average True Range using Wilder's smoothing.
// Inputs are most-recent-first and are reversed to chronological order before
// any true range is taken; the first chronological bar has no previous close
// and produces no true range, so at least 15 bars are required. Non-finite
// true ranges are dropped when the series is built, which also shrinks the
// seed window.
func ATR14(highs, lows, closes []float64) decimal.NullDecimal {
	h := reverse(highs)
	l := reverse(lows)
	c := reverse(closes)

	n := len(h)
	if len(l) < n {
		n = len(l)
	}
	if len(c) < n {
		n = len(c)
	}
	if n < 15 {
		return decimal.NullDecimal{}
	}

	tr := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		t := math.Max(h[i]-l[i], math.Max(math.Abs(h[i]-c[i-1]), math.Abs(l[i]-c[i-1])))
		if math.IsInf(t, 0) || math.IsNaN(t) {
			continue
		}
		tr = append(tr, t)
	}
	if len(tr) < 14 {
		return decimal.NullDecimal{}
	}

	var seed float64
	for _, t := range tr[:14] {
		seed += t
	}
	atr := seed / 14
	for _, t := range tr[14:] {
		atr = (13*atr + t) / 14
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(atr).Round(2), Valid: true}
}

// VolumeRatio computes sum of the most recent `recent` volumes divided by the
// mean of the most recent `window` volumes, most-recent-first. A zero-mean
// window yields an invalid result rather than a division by zero.
func VolumeRatio(volumes []int64, recent, window int) decimal.NullDecimal {
	need := recent
	if window > need {
		need = window
	}
	if recent <= 0 || window <= 0 || len(volumes) < need {
		return decimal.NullDecimal{}
	}

	var recentSum, windowSum int64
	for _, v := range volumes[:recent] {
		recentSum += v
	}
	for _, v := range volumes[:window] {
		windowSum += v
	}
	if windowSum == 0 {
		return decimal.NullDecimal{}
	}

	avg := float64(windowSum) / float64(window)
	ratio := float64(recentSum) / avg
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(ratio).Round(2), Valid: true}
}

// RollingHigh finds the highest close among chronological bars dated on or
// after targetDate minus lookbackDays, along with the date it occurred.
// Scanning runs oldest to newest and only a strictly greater close replaces
// the running maximum, so ties resolve to the earliest date. Bars with a zero
// close are ignored.
func RollingHigh(bars []*models.PriceBar, targetDate time.Time, lookbackDays int) (decimal.NullDecimal, sql.NullTime) {
	cutoff := targetDate.AddDate(0, 0, -lookbackDays)

	var (
		maxClose decimal.Decimal
		maxDate  time.Time
		found    bool
	)
	for _, b := range bars {
		if b.Date.Before(cutoff) {
			continue
		}
		if b.Close.IsZero() {
			continue
		}
		if !found || b.Close.GreaterThan(maxClose) {
			maxClose = b.Close
			maxDate = b.Date
			found = true
		}
	}
	if !found {
		return decimal.NullDecimal{}, sql.NullTime{}
	}
	return decimal.NullDecimal{Decimal: maxClose.Round(2), Valid: true},
		sql.NullTime{Time: maxDate, Valid: true}
}

func reverse(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

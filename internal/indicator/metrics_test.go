package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

func decimals(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func repeatDecimal(v float64, n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func repeatInt64(v int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSMA(t *testing.T) {
	t.Run("averages the most recent window values", func(t *testing.T) {
		closes := decimals(1, 2, 3, 4, 5, 6)
		got := SMA(closes, 2)
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromFloat(1.50).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("rounds half up at 2 decimal places", func(t *testing.T) {
		// mean of 10.00 and 10.01 is 10.005, which must round up
		closes := decimals(10.00, 10.01)
		got := SMA(closes, 2)
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromFloat(10.01).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("flat series returns the constant", func(t *testing.T) {
		closes := repeatDecimal(100.00, 200)
		for _, w := range SMAWindows {
			got := SMA(closes, w)
			require.True(t, got.Valid, "window %d", w)
			assert.True(t, decimal.NewFromFloat(100.00).Equal(got.Decimal), "window %d got %s", w, got.Decimal)
		}
	})

	t.Run("insufficient history is absent", func(t *testing.T) {
		closes := repeatDecimal(100.00, 4)
		assert.False(t, SMA(closes, 5).Valid)
		assert.False(t, SMA(nil, 5).Valid)
	})
}

func TestSMAPrev(t *testing.T) {
	t.Run("equals SMA over the series minus its head", func(t *testing.T) {
		closes := decimals(5, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
		for _, w := range []int{2, 5, 10} {
			prev := SMAPrev(closes, w)
			shifted := SMA(closes[1:], w)
			require.True(t, prev.Valid, "window %d", w)
			assert.True(t, shifted.Decimal.Equal(prev.Decimal), "window %d: %s vs %s", w, prev.Decimal, shifted.Decimal)
		}
	})

	t.Run("needs one extra value", func(t *testing.T) {
		closes := repeatDecimal(100.00, 5)
		assert.True(t, SMA(closes, 5).Valid)
		assert.False(t, SMAPrev(closes, 5).Valid)
	})
}

func TestADR20(t *testing.T) {
	t.Run("average range as a percentage", func(t *testing.T) {
		// constant 1-point daily range: mean 1 * 100 = 100.00
		highs := repeatDecimal(11, 20)
		lows := repeatDecimal(10, 20)
		got := ADR20(highs, lows)
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromFloat(100.00).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("flat bars yield zero", func(t *testing.T) {
		highs := repeatDecimal(100, 20)
		got := ADR20(highs, highs)
		require.True(t, got.Valid)
		assert.True(t, got.Decimal.IsZero())
	})

	t.Run("only the most recent 20 pairs count", func(t *testing.T) {
		highs := append(repeatDecimal(11, 20), repeatDecimal(50, 10)...)
		lows := append(repeatDecimal(10, 20), repeatDecimal(1, 10)...)
		got := ADR20(highs, lows)
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromFloat(100.00).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("insufficient pairs is absent", func(t *testing.T) {
		assert.False(t, ADR20(repeatDecimal(11, 19), repeatDecimal(10, 19)).Valid)
		assert.False(t, ADR20(repeatDecimal(11, 20), repeatDecimal(10, 19)).Valid)
	})
}

func TestAVD20(t *testing.T) {
	t.Run("mean close times mean volume", func(t *testing.T) {
		closes := repeatDecimal(10.50, 20)
		volumes := repeatInt64(1000, 20)
		got := AVD20(closes, volumes)
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromFloat(10500.00).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("rounds once at 2 decimal places", func(t *testing.T) {
		// sum close 20.01 * sum volume 3 / 400 = 0.150075 -> 0.15
		closes := append(decimals(20.01), repeatDecimal(0, 19)...)
		volumes := append([]int64{3}, repeatInt64(0, 19)...)
		got := AVD20(closes, volumes)
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromFloat(0.15).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("insufficient history is absent", func(t *testing.T) {
		assert.False(t, AVD20(repeatDecimal(10, 19), repeatInt64(1, 20)).Valid)
		assert.False(t, AVD20(repeatDecimal(10, 20), repeatInt64(1, 19)).Valid)
	})
}

// atrBars builds a chronological series where each bar's true range equals
// the given value: closes all pinned at 10, highs and lows straddling it.
func atrBars(trueRanges []float64) (highs, lows, closes []float64) {
	// oldest bar seeds the previous close and contributes no true range
	highs = []float64{10}
	lows = []float64{10}
	closes = []float64{10}
	for _, tr := range trueRanges {
		highs = append(highs, 10+tr/2)
		lows = append(lows, 10-tr/2)
		closes = append(closes, 10)
	}
	return highs, lows, closes
}

func descending(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

func TestATR14(t *testing.T) {
	t.Run("seeds with the mean of the first 14 true ranges", func(t *testing.T) {
		trs := []float64{2, 3, 1, 4, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
		h, l, c := atrBars(trs)
		got := ATR14(descending(h), descending(l), descending(c))
		require.True(t, got.Valid)
		// sum 30 / 14 = 2.1428..., no smoothing steps with exactly 15 bars
		assert.True(t, decimal.NewFromFloat(2.14).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("applies Wilder smoothing past the seed", func(t *testing.T) {
		trs := append(repeatFloat(2, 14), 16)
		h, l, c := atrBars(trs)
		got := ATR14(descending(h), descending(l), descending(c))
		require.True(t, got.Valid)
		// seed 2.0, then (13*2 + 16) / 14 = 3.0
		assert.True(t, decimal.NewFromFloat(3.00).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("input order matters", func(t *testing.T) {
		// a late spike smooths differently from an early one
		trs := append(repeatFloat(2, 14), 16, 2, 2)
		h, l, c := atrBars(trs)
		fromDescending := ATR14(descending(h), descending(l), descending(c))
		fromChronological := ATR14(h, l, c)
		require.True(t, fromDescending.Valid)
		require.True(t, fromChronological.Valid)
		assert.False(t, fromDescending.Decimal.Equal(fromChronological.Decimal),
			"reversing should change the result: %s", fromDescending.Decimal)
	})

	t.Run("non-finite true ranges are dropped", func(t *testing.T) {
		trs := repeatFloat(2, 14)
		h, l, c := atrBars(trs)
		h[5] = math.Inf(1) // poisons one true range
		got := ATR14(descending(h), descending(l), descending(c))
		assert.False(t, got.Valid, "13 finite true ranges are not enough")

		// one spare true range absorbs the dropped one
		trs = repeatFloat(2, 15)
		h, l, c = atrBars(trs)
		h[5] = math.Inf(1)
		got = ATR14(descending(h), descending(l), descending(c))
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromFloat(2.00).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("fewer than 15 bars is absent", func(t *testing.T) {
		h, l, c := atrBars(repeatFloat(2, 13))
		assert.False(t, ATR14(descending(h), descending(l), descending(c)).Valid)
	})
}

func repeatFloat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestVolumeRatio(t *testing.T) {
	t.Run("recent sum over window mean", func(t *testing.T) {
		volumes := repeatInt64(1000, 90)

		a130 := VolumeRatio(volumes, 1, 30)
		require.True(t, a130.Valid)
		assert.True(t, decimal.NewFromFloat(1.00).Equal(a130.Decimal), "got %s", a130.Decimal)

		a260 := VolumeRatio(volumes, 2, 60)
		require.True(t, a260.Valid)
		assert.True(t, decimal.NewFromFloat(2.00).Equal(a260.Decimal), "got %s", a260.Decimal)

		a390 := VolumeRatio(volumes, 3, 90)
		require.True(t, a390.Valid)
		assert.True(t, decimal.NewFromFloat(3.00).Equal(a390.Decimal), "got %s", a390.Decimal)
	})

	t.Run("surge shows up in the ratio", func(t *testing.T) {
		volumes := append([]int64{3000}, repeatInt64(1000, 29)...)
		got := VolumeRatio(volumes, 1, 30)
		require.True(t, got.Valid)
		// mean is 3000 + 29000 = 32000 / 30; 3000 / (32000/30) = 2.8125
		assert.True(t, decimal.NewFromFloat(2.81).Equal(got.Decimal), "got %s", got.Decimal)
	})

	t.Run("zero-mean window is absent, not infinite", func(t *testing.T) {
		volumes := repeatInt64(0, 30)
		assert.False(t, VolumeRatio(volumes, 1, 30).Valid)
	})

	t.Run("insufficient history is absent", func(t *testing.T) {
		assert.False(t, VolumeRatio(repeatInt64(1000, 29), 1, 30).Valid)
		assert.False(t, VolumeRatio(repeatInt64(1000, 2), 3, 2).Valid)
	})
}

func TestRollingHigh(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}
	bar := func(offset int, close float64) *models.PriceBar {
		return &models.PriceBar{
			Symbol: "TEST",
			Date:   day(offset),
			Close:  decimal.NewFromFloat(close),
		}
	}
	target := day(10)

	t.Run("finds the maximum close and its date", func(t *testing.T) {
		bars := []*models.PriceBar{bar(0, 10), bar(1, 30), bar(2, 20)}
		high, date := RollingHigh(bars, target, 365)
		require.True(t, high.Valid)
		require.True(t, date.Valid)
		assert.True(t, decimal.NewFromFloat(30.00).Equal(high.Decimal))
		assert.Equal(t, day(1), date.Time)
	})

	t.Run("ties resolve to the earliest date", func(t *testing.T) {
		bars := []*models.PriceBar{bar(0, 10), bar(1, 30), bar(2, 30), bar(3, 30)}
		high, date := RollingHigh(bars, target, 365)
		require.True(t, high.Valid)
		assert.True(t, decimal.NewFromFloat(30.00).Equal(high.Decimal))
		assert.Equal(t, day(1), date.Time)
	})

	t.Run("bars before the cutoff are excluded", func(t *testing.T) {
		bars := []*models.PriceBar{bar(-400, 99), bar(0, 10), bar(2, 20)}
		high, date := RollingHigh(bars, target, 365)
		require.True(t, high.Valid)
		assert.True(t, decimal.NewFromFloat(20.00).Equal(high.Decimal))
		assert.Equal(t, day(2), date.Time)
	})

	t.Run("cutoff date itself is included", func(t *testing.T) {
		bars := []*models.PriceBar{bar(10 - 182, 50), bar(2, 20)}
		high, _ := RollingHigh(bars, target, 182)
		require.True(t, high.Valid)
		assert.True(t, decimal.NewFromFloat(50.00).Equal(high.Decimal))
	})

	t.Run("zero closes are ignored", func(t *testing.T) {
		bars := []*models.PriceBar{bar(0, 0), bar(1, 0)}
		high, date := RollingHigh(bars, target, 365)
		assert.False(t, high.Valid)
		assert.False(t, date.Valid)
	})

	t.Run("empty window is absent", func(t *testing.T) {
		high, date := RollingHigh(nil, target, 365)
		assert.False(t, high.Valid)
		assert.False(t, date.Valid)
	})
}

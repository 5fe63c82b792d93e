package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IndicatorRowsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indicator_rows_written_total",
		Help: "Total number of indicator rows upserted",
	})

	SymbolsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indicator_symbols_skipped_total",
		Help: "Symbols skipped for insufficient history or bad data",
	})

	BatchFlushFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indicator_batch_flush_failures_total",
		Help: "Indicator batch upserts rejected by the database",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "indicator_run_duration_seconds",
		Help:    "Wall-clock duration of a full indicator calculation run",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	QuotesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_quotes_fetched_total",
		Help: "Quotes fetched from the market data API",
	}, []string{"exchange"})
)

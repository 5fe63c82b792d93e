package indicator

import (
	"fmt"
	"log"
	"time"

	"github.com/trogers1052/stock-indicator-system/internal/metrics"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

// DefaultBatchSize is how many records accumulate before a flush when the
// caller does not specify a batch size.
const DefaultBatchSize = 500

// IndicatorSink receives completed indicator records. Implemented by
// database.DB.
type IndicatorSink interface {
	// UpsertIndicatorBatch writes all records keyed by (symbol, date),
	// overwriting existing rows, and returns the number of rows affected.
	// A zero-length batch is a no-op.
	UpsertIndicatorBatch(records []*models.IndicatorRecord) (int64, error)
}

// Engine drives the full-universe indicator calculation: it resolves the
// current trading date, sweeps every symbol with a bar on that date, and
// flushes completed records to the sink in bounded batches. Symbols are
// independent, so processing order never affects the result.
type Engine struct {
	history PriceHistory
	sink    IndicatorSink
	calc    *Calculator
}

// NewEngine creates an Engine over the given history source and sink.
func NewEngine(history PriceHistory, sink IndicatorSink) *Engine {
	return &Engine{
		history: history,
		sink:    sink,
		calc:    NewCalculator(history),
	}
}

// Run calculates indicators for every symbol trading on the most recent date
// in the store and returns the total number of rows written. A batch flush
// failure drops that batch and continues; only an empty store aborts the run.
func (e *Engine) Run(batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	start := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	targetDate, err := e.history.GetLatestDate()
	if err != nil {
		return 0, fmt.Errorf("resolving latest trading date: %w", err)
	}

	symbols, err := e.history.GetSymbolsOn(targetDate)
	if err != nil {
		return 0, fmt.Errorf("resolving symbol universe: %w", err)
	}
	if len(symbols) == 0 {
		log.Printf("no symbols with data on %s, nothing to calculate", targetDate.Format("2006-01-02"))
		return 0, nil
	}

	log.Printf("calculating indicators for %d symbols on %s", len(symbols), targetDate.Format("2006-01-02"))

	batch := make([]*models.IndicatorRecord, 0, batchSize)
	var total int64

	for _, symbol := range symbols {
		rec, err := e.calc.CalculateForSymbol(symbol, targetDate)
		if err != nil {
			log.Printf("skipping %s: %v", symbol, err)
			metrics.SymbolsSkipped.Inc()
			continue
		}
		if rec == nil {
			metrics.SymbolsSkipped.Inc()
			continue
		}

		batch = append(batch, rec)
		if len(batch) >= batchSize {
			total += e.flush(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		total += e.flush(batch)
	}

	log.Printf("indicator run complete: %d rows written", total)
	return total, nil
}

// flush writes one batch to the sink. A rejected batch is logged and dropped;
// those symbols simply carry no record for this run.
func (e *Engine) flush(batch []*models.IndicatorRecord) int64 {
	written, err := e.sink.UpsertIndicatorBatch(batch)
	if err != nil {
		log.Printf("batch upsert failed, dropping %d records: %v", len(batch), err)
		metrics.BatchFlushFailures.Inc()
		return 0
	}
	metrics.IndicatorRowsWritten.Add(float64(written))
	return written
}

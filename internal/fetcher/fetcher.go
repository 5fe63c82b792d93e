package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-indicator-system/internal/metrics"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

const defaultETFListURL = "https://financialmodelingprep.com/stable/etf-list"

// PriceBarWriter stores fetched bars. Implemented by database.DB.
type PriceBarWriter interface {
	CreatePriceBarBatch(bars []*models.PriceBar) error
}

// Quote is one symbol's snapshot from the FMP exchange quote endpoint
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	DayHigh   float64 `json:"dayHigh"`
	DayLow    float64 `json:"dayLow"`
	Volume    int64   `json:"volume"`
	AvgVolume int64   `json:"avgVolume"`
}

// Fetcher pulls end-of-day quotes from the Financial Modeling Prep API and
// stores them as daily price bars. ETFs and low-quality quotes are filtered
// out before storage.
type Fetcher struct {
	apiKey     string
	baseURL    string
	etfListURL string
	client     *http.Client
	repo       PriceBarWriter
	etfSymbols map[string]struct{}
}

// New creates a Fetcher for the given API credentials and repository
func New(apiKey, baseURL string, repo PriceBarWriter) *Fetcher {
	return &Fetcher{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		etfListURL: defaultETFListURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		repo:       repo,
		etfSymbols: make(map[string]struct{}),
	}
}

// LoadETFList fetches the list of ETF symbols to exclude from storage.
// Failure is non-fatal: fetching proceeds without ETF filtering.
func (f *Fetcher) LoadETFList(ctx context.Context) error {
	var list []struct {
		Symbol string `json:"symbol"`
	}
	if err := f.getJSON(ctx, f.etfListURL+"?apikey="+f.apiKey, &list); err != nil {
		return fmt.Errorf("failed to load ETF list: %w", err)
	}

	for _, item := range list {
		if item.Symbol != "" {
			f.etfSymbols[item.Symbol] = struct{}{}
		}
	}
	log.Printf("Loaded %d ETF symbols to exclude", len(f.etfSymbols))
	return nil
}

// FetchExchangeQuotes fetches all quotes for one exchange
func (f *Fetcher) FetchExchangeQuotes(ctx context.Context, exchange string) ([]Quote, error) {
	url := fmt.Sprintf("%s/quotes/%s?apikey=%s", f.baseURL, exchange, f.apiKey)

	var quotes []Quote
	if err := f.getJSON(ctx, url, &quotes); err != nil {
		return nil, fmt.Errorf("quote request failed for %s: %w", exchange, err)
	}
	return quotes, nil
}

// UpdateAllExchanges fetches and stores quotes from every exchange, returning
// the number of bars stored. A failed exchange is logged and skipped.
func (f *Fetcher) UpdateAllExchanges(ctx context.Context, exchanges []string) int {
	if len(f.etfSymbols) == 0 {
		if err := f.LoadETFList(ctx); err != nil {
			log.Printf("%v; continuing without ETF filtering", err)
		}
	}

	total := 0
	for _, exchange := range exchanges {
		quotes, err := f.FetchExchangeQuotes(ctx, exchange)
		if err != nil {
			log.Printf("skipping %s: %v", exchange, err)
			continue
		}
		metrics.QuotesFetched.WithLabelValues(exchange).Add(float64(len(quotes)))

		bars := f.prepareBars(quotes)
		log.Printf("%s: %d symbols after filtering", exchange, len(bars))
		if len(bars) == 0 {
			continue
		}

		if err := f.repo.CreatePriceBarBatch(bars); err != nil {
			log.Printf("failed to store bars for %s: %v", exchange, err)
			continue
		}
		total += len(bars)
	}
	return total
}

// prepareBars filters quotes and converts them to daily price bars. The
// quote endpoint has no open, so the day's bar uses price for both open and
// close, matching the upstream feed's convention.
func (f *Fetcher) prepareBars(quotes []Quote) []*models.PriceBar {
	today := time.Now().Truncate(24 * time.Hour)

	var bars []*models.PriceBar
	for _, q := range quotes {
		symbol := strings.TrimSpace(q.Symbol)
		if symbol == "" || strings.Contains(symbol, "-") {
			continue
		}
		if q.Price <= 0 || q.AvgVolume <= 0 {
			continue
		}
		if _, isETF := f.etfSymbols[symbol]; isETF {
			continue
		}

		price := decimal.NewFromFloat(q.Price).Round(2)
		high := price
		if q.DayHigh > 0 {
			high = decimal.NewFromFloat(q.DayHigh).Round(2)
		}
		low := price
		if q.DayLow > 0 {
			low = decimal.NewFromFloat(q.DayLow).Round(2)
		}

		bars = append(bars, &models.PriceBar{
			Symbol: symbol,
			Date:   today,
			Open:   price,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: q.Volume,
		})
	}
	return bars
}

func (f *Fetcher) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

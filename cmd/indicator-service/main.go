package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-indicator-system/internal/config"
	"github.com/trogers1052/stock-indicator-system/internal/database"
	"github.com/trogers1052/stock-indicator-system/internal/fetcher"
	"github.com/trogers1052/stock-indicator-system/internal/indicator"
	"github.com/trogers1052/stock-indicator-system/internal/kafka"
)

func main() {
	fetchData := flag.Bool("fetch", true, "fetch latest market data before calculation")
	calc := flag.Bool("calc", true, "calculate and store indicators")
	hotStocks := flag.Bool("hot-stocks", true, "run the hot-stock screen after calculation")
	cleanupMode := flag.String("cleanup-mode", "truncate", "indicator cleanup before calculation: none|truncate|keep-latest|keep-date")
	cleanupDate := flag.String("cleanup-date", "", "YYYY-MM-DD, used with -cleanup-mode keep-date")
	batchSize := flag.Int("batch-size", 0, "records per indicator upsert batch (0 = configured default)")
	publish := flag.Bool("publish", false, "publish run events to Kafka")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var producer *kafka.Producer
	if *publish {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
		defer producer.Close()
	}

	ctx := context.Background()
	start := time.Now()

	if *fetchData {
		log.Println("STEP 1: Fetching market data")
		f := fetcher.New(cfg.FMP.APIKey, cfg.FMP.BaseURL, db)
		stored := f.UpdateAllExchanges(ctx, cfg.FMP.Exchanges)
		log.Printf("Stored %d price bars", stored)
	}

	if *calc {
		runCleanup(db, *cleanupMode, *cleanupDate)

		log.Println("STEP 2: Calculating indicators")
		size := *batchSize
		if size <= 0 {
			size = cfg.Indicators.BatchSize
		}
		engine := indicator.NewEngine(db, db)
		written, err := engine.Run(size)
		if err != nil {
			log.Fatalf("Indicator run failed: %v", err)
		}
		log.Printf("Wrote indicators for %d symbols", written)

		if producer != nil && written > 0 {
			if date, err := db.GetLatestDate(); err == nil {
				if err := producer.PublishIndicatorsCalculated(ctx, date, written); err != nil {
					log.Printf("Failed to publish run event: %v", err)
				}
			}
		}
	}

	if *hotStocks {
		log.Println("STEP 3: Finding hot stocks")
		runHotStockScreen(ctx, db, producer, cfg)
	}

	log.Printf("Run completed in %.2f seconds", time.Since(start).Seconds())
}

func runCleanup(db *database.DB, mode, date string) {
	switch mode {
	case "", "none":
		return
	case "truncate":
		if err := db.TruncateIndicators(); err != nil {
			log.Printf("Truncate failed: %v", err)
		} else {
			log.Println("Truncated stock_indicators")
		}
	case "keep-latest":
		deleted, err := db.KeepOnlyLatestIndicators()
		if err != nil {
			log.Printf("Prune failed: %v", err)
		} else {
			log.Printf("Pruned indicators, deleted %d rows; kept latest date only", deleted)
		}
	case "keep-date":
		if date == "" {
			log.Println("-cleanup-mode keep-date requires -cleanup-date YYYY-MM-DD; skipping cleanup")
			return
		}
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			log.Println("Invalid -cleanup-date format; expected YYYY-MM-DD. Skipping cleanup.")
			return
		}
		deleted, err := db.KeepOnlyIndicatorDate(d)
		if err != nil {
			log.Printf("Prune failed: %v", err)
		} else {
			log.Printf("Pruned indicators, deleted %d rows; kept %s", deleted, date)
		}
	default:
		log.Printf("Unknown cleanup mode %q; skipping cleanup", mode)
	}
}

func runHotStockScreen(ctx context.Context, db *database.DB, producer *kafka.Producer, cfg *config.Config) {
	if _, err := db.DeleteHotStocksOlderThan(cfg.HotStocks.DaysToKeep); err != nil {
		log.Printf("Failed to prune old hot stocks: %v", err)
	}

	hot, err := db.FindHotStocks(
		decimal.NewFromFloat(cfg.HotStocks.MinPriceChangePct),
		decimal.NewFromFloat(cfg.HotStocks.MinVolumeRatio),
	)
	if err != nil {
		log.Printf("Hot stock screen failed: %v", err)
		return
	}
	if len(hot) == 0 {
		log.Println("No hot stocks found")
		return
	}

	count, err := db.InsertHotStocks(hot)
	if err != nil {
		log.Printf("Failed to store hot stocks: %v", err)
		return
	}
	log.Printf("Stored %d hot stocks", count)

	if producer != nil {
		for _, h := range hot {
			if err := producer.PublishHotStockDetected(ctx, h); err != nil {
				log.Printf("Failed to publish hot stock %s: %v", h.Symbol, err)
			}
		}
	}
}

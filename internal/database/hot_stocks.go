package database

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

// FindHotStocks returns stocks on the most recent trading date whose close is
// up more than minChangePct over the previous session and whose one-day
// volume ratio (a130) exceeds minVolumeRatio, ordered by change descending.
func (db *DB) FindHotStocks(minChangePct, minVolumeRatio decimal.Decimal) ([]*models.HotStock, error) {
	latest, err := db.GetLatestDate()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve screening date: %w", err)
	}

	query := `
		SELECT
			today.symbol,
			today.date,
			today.open,
			today.close,
			today.volume,
			si.a130,
			(today.close - prev.close) / prev.close * 100 AS price_change_pct
		FROM price_data_daily today
		JOIN stock_indicators si
			ON today.symbol = si.symbol AND today.date = si.date
		JOIN price_data_daily prev
			ON today.symbol = prev.symbol
			AND prev.date = (
				SELECT MAX(date)
				FROM price_data_daily
				WHERE symbol = today.symbol AND date < today.date
			)
		WHERE today.date = $1
			AND prev.close > 0
			AND today.close > prev.close
			AND (today.close - prev.close) / prev.close * 100 > $2
			AND si.a130 > $3
		ORDER BY price_change_pct DESC
	`
	rows, err := db.conn.Query(query, latest, minChangePct, minVolumeRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to find hot stocks: %w", err)
	}
	defer rows.Close()

	var hot []*models.HotStock
	for rows.Next() {
		var h models.HotStock
		err := rows.Scan(
			&h.Symbol, &h.Date, &h.Open, &h.Close, &h.Volume, &h.VolumeRatio, &h.PriceChangePct,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hot stock: %w", err)
		}
		h.PriceChangePct = h.PriceChangePct.Round(2)
		hot = append(hot, &h)
	}

	return hot, rows.Err()
}

// InsertHotStocks upserts screened stocks keyed by (symbol, date)
func (db *DB) InsertHotStocks(hotStocks []*models.HotStock) (int64, error) {
	if len(hotStocks) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO hot_stocks (symbol, date, open, close, price_change_pct, volume, volume_ratio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			close = EXCLUDED.close,
			price_change_pct = EXCLUDED.price_change_pct,
			volume = EXCLUDED.volume,
			volume_ratio = EXCLUDED.volume_ratio,
			created_at = EXCLUDED.created_at
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	var affected int64
	for _, h := range hotStocks {
		result, err := stmt.Exec(
			h.Symbol, h.Date, h.Open, h.Close, h.PriceChangePct, h.Volume, h.VolumeRatio, now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert hot stock %s: %w", h.Symbol, err)
		}
		n, _ := result.RowsAffected()
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return affected, nil
}

// GetHotStocks retrieves the screened stocks for a date, ordered by change
func (db *DB) GetHotStocks(date time.Time) ([]*models.HotStock, error) {
	query := `
		SELECT id, symbol, date, open, close, price_change_pct, volume, volume_ratio, created_at
		FROM hot_stocks
		WHERE date = $1
		ORDER BY price_change_pct DESC
	`
	rows, err := db.conn.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get hot stocks: %w", err)
	}
	defer rows.Close()

	var hot []*models.HotStock
	for rows.Next() {
		var h models.HotStock
		err := rows.Scan(
			&h.ID, &h.Symbol, &h.Date, &h.Open, &h.Close, &h.PriceChangePct, &h.Volume, &h.VolumeRatio, &h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hot stock: %w", err)
		}
		hot = append(hot, &h)
	}

	return hot, rows.Err()
}

// DeleteHotStocksOlderThan removes screener rows older than daysToKeep days
func (db *DB) DeleteHotStocksOlderThan(daysToKeep int) (int64, error) {
	query := `DELETE FROM hot_stocks WHERE date < CURRENT_DATE - $1::int`
	result, err := db.conn.Exec(query, daysToKeep)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old hot stocks: %w", err)
	}
	return result.RowsAffected()
}

package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trogers1052/stock-indicator-system/internal/models"
)

// CreatePriceBar inserts a new daily price bar
func (db *DB) CreatePriceBar(p *models.PriceBar) error {
	query := `
		INSERT INTO price_data_daily (symbol, date, open, high, low, close, volume, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
		RETURNING id
	`
	err := db.conn.QueryRow(query,
		p.Symbol, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume, time.Now(),
	).Scan(&p.ID)

	if err != nil {
		return fmt.Errorf("failed to create price bar: %w", err)
	}
	return nil
}

// CreatePriceBarBatch inserts multiple price bars efficiently
func (db *DB) CreatePriceBarBatch(bars []*models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO price_data_daily (symbol, date, open, high, low, close, volume, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, p := range bars {
		_, err := stmt.Exec(p.Symbol, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume, now)
		if err != nil {
			return fmt.Errorf("failed to insert price bar for %s: %w", p.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPriceBar retrieves the bar for a specific symbol and date
func (db *DB) GetPriceBar(symbol string, date time.Time) (*models.PriceBar, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM price_data_daily
		WHERE symbol = $1 AND date = $2
	`
	var p models.PriceBar
	err := db.conn.QueryRow(query, symbol, date).Scan(
		&p.ID, &p.Symbol, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("price bar not found for %s on %s", symbol, date.Format("2006-01-02"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price bar: %w", err)
	}
	return &p, nil
}

// GetPriceHistory retrieves up to limit bars for a symbol, most recent first
func (db *DB) GetPriceHistory(symbol string, limit int) ([]*models.PriceBar, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM price_data_daily
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT $2
	`
	rows, err := db.conn.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	defer rows.Close()

	var bars []*models.PriceBar
	for rows.Next() {
		var p models.PriceBar
		err := rows.Scan(
			&p.ID, &p.Symbol, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}
		bars = append(bars, &p)
	}

	return bars, rows.Err()
}

// GetLatestDate returns the most recent trading date across all symbols
func (db *DB) GetLatestDate() (time.Time, error) {
	query := `SELECT MAX(date) FROM price_data_daily`

	var latest sql.NullTime
	if err := db.conn.QueryRow(query).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, fmt.Errorf("no price data in store")
	}
	return latest.Time, nil
}

// GetSymbolsOn returns all symbols that have a bar on the given date
func (db *DB) GetSymbolsOn(date time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM price_data_daily
		WHERE date = $1
		ORDER BY symbol
	`
	rows, err := db.conn.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}

	return symbols, rows.Err()
}

// DeletePriceBarsOlderThan removes bars older than a specified date
func (db *DB) DeletePriceBarsOlderThan(date time.Time) (int64, error) {
	query := `DELETE FROM price_data_daily WHERE date < $1`
	result, err := db.conn.Exec(query, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old price bars: %w", err)
	}
	return result.RowsAffected()
}

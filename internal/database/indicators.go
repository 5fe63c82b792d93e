package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trogers1052/stock-indicator-system/internal/models"
)

const indicatorColumns = `
	id, symbol, date,
	sma5, sma10, sma20, sma50, sma100, sma200,
	sma5s1, sma10s1, sma20s1, sma50s1, sma100s1, sma200s1,
	adr20, avd20, atr14,
	a130, a260, a390,
	ftwh, ftwhdate, tswh, tswhdate,
	created_at
`

// UpsertIndicatorBatch writes all records in one transaction, keyed by
// (symbol, date); re-submitting the same key overwrites every field.
// Returns the number of rows affected. A zero-length batch is a no-op.
func (db *DB) UpsertIndicatorBatch(records []*models.IndicatorRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stock_indicators (
			symbol, date,
			sma5, sma10, sma20, sma50, sma100, sma200,
			sma5s1, sma10s1, sma20s1, sma50s1, sma100s1, sma200s1,
			adr20, avd20, atr14,
			a130, a260, a390,
			ftwh, ftwhdate, tswh, tswhdate,
			created_at
		) VALUES (
			$1, $2,
			$3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17,
			$18, $19, $20,
			$21, $22, $23, $24,
			$25
		)
		ON CONFLICT (symbol, date) DO UPDATE SET
			sma5 = EXCLUDED.sma5, sma10 = EXCLUDED.sma10, sma20 = EXCLUDED.sma20,
			sma50 = EXCLUDED.sma50, sma100 = EXCLUDED.sma100, sma200 = EXCLUDED.sma200,
			sma5s1 = EXCLUDED.sma5s1, sma10s1 = EXCLUDED.sma10s1, sma20s1 = EXCLUDED.sma20s1,
			sma50s1 = EXCLUDED.sma50s1, sma100s1 = EXCLUDED.sma100s1, sma200s1 = EXCLUDED.sma200s1,
			adr20 = EXCLUDED.adr20, avd20 = EXCLUDED.avd20, atr14 = EXCLUDED.atr14,
			a130 = EXCLUDED.a130, a260 = EXCLUDED.a260, a390 = EXCLUDED.a390,
			ftwh = EXCLUDED.ftwh, ftwhdate = EXCLUDED.ftwhdate,
			tswh = EXCLUDED.tswh, tswhdate = EXCLUDED.tswhdate
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	var affected int64
	for _, r := range records {
		result, err := stmt.Exec(
			r.Symbol, r.Date,
			r.SMA5, r.SMA10, r.SMA20, r.SMA50, r.SMA100, r.SMA200,
			r.SMA5Prev, r.SMA10Prev, r.SMA20Prev, r.SMA50Prev, r.SMA100Prev, r.SMA200Prev,
			r.ADR20, r.AVD20, r.ATR14,
			r.A130, r.A260, r.A390,
			r.FTWH, r.FTWHDate, r.TSWH, r.TSWHDate,
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert indicators for %s: %w", r.Symbol, err)
		}
		n, _ := result.RowsAffected()
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return affected, nil
}

// GetIndicatorRecord retrieves the full indicator row for a symbol and date
func (db *DB) GetIndicatorRecord(symbol string, date time.Time) (*models.IndicatorRecord, error) {
	query := `
		SELECT ` + indicatorColumns + `
		FROM stock_indicators
		WHERE symbol = $1 AND date = $2
	`
	r, err := scanIndicatorRecord(db.conn.QueryRow(query, symbol, date))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("indicators not found for %s on %s", symbol, date.Format("2006-01-02"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get indicators: %w", err)
	}
	return r, nil
}

// GetLatestIndicatorRecord retrieves the most recent indicator row for a symbol
func (db *DB) GetLatestIndicatorRecord(symbol string) (*models.IndicatorRecord, error) {
	query := `
		SELECT ` + indicatorColumns + `
		FROM stock_indicators
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT 1
	`
	r, err := scanIndicatorRecord(db.conn.QueryRow(query, symbol))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no indicators found for %s", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest indicators: %w", err)
	}
	return r, nil
}

// TruncateIndicators removes every indicator row
func (db *DB) TruncateIndicators() error {
	if _, err := db.conn.Exec(`TRUNCATE TABLE stock_indicators`); err != nil {
		return fmt.Errorf("failed to truncate indicators: %w", err)
	}
	return nil
}

// KeepOnlyIndicatorDate deletes all indicator rows except the given date and
// returns how many were removed
func (db *DB) KeepOnlyIndicatorDate(keep time.Time) (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM stock_indicators WHERE date <> $1`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune indicators: %w", err)
	}
	return result.RowsAffected()
}

// KeepOnlyLatestIndicators keeps the most recent date's rows and deletes the
// rest. Returns rows deleted; an empty table deletes nothing.
func (db *DB) KeepOnlyLatestIndicators() (int64, error) {
	var latest sql.NullTime
	if err := db.conn.QueryRow(`SELECT MAX(date) FROM stock_indicators`).Scan(&latest); err != nil {
		return 0, fmt.Errorf("failed to find latest indicator date: %w", err)
	}
	if !latest.Valid {
		return 0, nil
	}
	return db.KeepOnlyIndicatorDate(latest.Time)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIndicatorRecord(row rowScanner) (*models.IndicatorRecord, error) {
	var r models.IndicatorRecord
	err := row.Scan(
		&r.ID, &r.Symbol, &r.Date,
		&r.SMA5, &r.SMA10, &r.SMA20, &r.SMA50, &r.SMA100, &r.SMA200,
		&r.SMA5Prev, &r.SMA10Prev, &r.SMA20Prev, &r.SMA50Prev, &r.SMA100Prev, &r.SMA200Prev,
		&r.ADR20, &r.AVD20, &r.ATR14,
		&r.A130, &r.A260, &r.A390,
		&r.FTWH, &r.FTWHDate, &r.TSWH, &r.TSWHDate,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

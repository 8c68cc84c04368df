package strategy

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
)

const dateLayout = "2006-01-02"

// Repository persists the strategy path's inputs: point-in-time intrinsic
// valuations and weekly prices, keyed by symbol.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new strategy repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "strategy").Logger(),
	}
}

// SaveValuationPoints upserts valuation points for a symbol, keyed by
// fiscal year.
func (r *Repository) SaveValuationPoints(symbol string, points []domain.ValuationPoint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO valuation_points (symbol, fiscal_year, publish_date, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol, fiscal_year) DO UPDATE SET
			publish_date = excluded.publish_date,
			value = excluded.value
	`
	for _, p := range points {
		if _, err := tx.Exec(query, symbol, p.FiscalYear, p.PublishDate.Format(dateLayout), p.Value); err != nil {
			return fmt.Errorf("failed to upsert valuation point: %w", err)
		}
	}

	return tx.Commit()
}

// SavePricePoints upserts weekly price points for a symbol, keyed by date.
func (r *Repository) SavePricePoints(symbol string, points []domain.PricePoint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO weekly_prices (symbol, date, price)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET price = excluded.price
	`
	for _, p := range points {
		if _, err := tx.Exec(query, symbol, p.Date.Format(dateLayout), p.Price); err != nil {
			return fmt.Errorf("failed to upsert price point: %w", err)
		}
	}

	return tx.Commit()
}

// ValuationPoints returns a symbol's valuation points ordered by publish date.
func (r *Repository) ValuationPoints(symbol string) ([]domain.ValuationPoint, error) {
	rows, err := r.db.Query(`
		SELECT fiscal_year, publish_date, value
		FROM valuation_points
		WHERE symbol = ?
		ORDER BY publish_date
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuation points: %w", err)
	}
	defer rows.Close()

	var points []domain.ValuationPoint
	for rows.Next() {
		var p domain.ValuationPoint
		var publishDate string
		if err := rows.Scan(&p.FiscalYear, &publishDate, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan valuation point: %w", err)
		}
		if p.PublishDate, err = time.Parse(dateLayout, publishDate); err != nil {
			return nil, fmt.Errorf("invalid publish date %q: %w", publishDate, err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// PricePoints returns a symbol's weekly prices ordered by date.
func (r *Repository) PricePoints(symbol string) ([]domain.PricePoint, error) {
	rows, err := r.db.Query(`
		SELECT date, price
		FROM weekly_prices
		WHERE symbol = ?
		ORDER BY date
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		var date string
		if err := rows.Scan(&date, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		if p.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("invalid price date %q: %w", date, err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// Symbols lists every symbol with stored valuation history.
func (r *Repository) Symbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM valuation_points ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
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

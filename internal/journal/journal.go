// Package journal persists an audit trail of submitted entry orders.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Alias1177/Breakout/models"
)

// Journal is a PostgreSQL-backed record of every entry order the scanner
// submitted. The broker's execution ledger stays authoritative for the
// same-day duplicate rule; the journal is the operator-facing audit.
type Journal struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new journal connection
func New(params ConnectionParams) (*Journal, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &Journal{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entry_orders (
			client_order_id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			tier TEXT NOT NULL,
			stop_price DOUBLE PRECISION NOT NULL,
			limit_price DOUBLE PRECISION NOT NULL,
			quantity INTEGER NOT NULL,
			good_till_date TIMESTAMPTZ NOT NULL,
			trade_day TEXT NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS entry_orders_trade_day_idx
		ON entry_orders (trade_day)
	`)
	return err
}

// Record stores one submitted order.
func (j *Journal) Record(ctx context.Context, order models.OrderSpec) error {
	_, err := j.ExecContext(ctx, `
		INSERT INTO entry_orders (
			client_order_id, symbol, tier, stop_price, limit_price,
			quantity, good_till_date, trade_day, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (client_order_id) DO NOTHING
	`,
		order.ClientOrderID,
		order.Symbol,
		string(order.Tier),
		order.StopPrice,
		order.LimitPrice,
		order.Quantity,
		order.GoodTillDate,
		time.Now().Format("20060102"),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("recording entry order for %s: %w", order.Symbol, err)
	}
	return nil
}

// SymbolsEnteredOn returns the symbols journaled for a trade day (YYYYMMDD).
func (j *Journal) SymbolsEnteredOn(ctx context.Context, day string) (map[string]struct{}, error) {
	rows, err := j.QueryContext(ctx, `
		SELECT DISTINCT symbol FROM entry_orders WHERE trade_day = $1
	`, day)
	if err != nil {
		return nil, fmt.Errorf("querying entries for %s: %w", day, err)
	}
	defer rows.Close()

	symbols := make(map[string]struct{})
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols[symbol] = struct{}{}
	}
	return symbols, rows.Err()
}

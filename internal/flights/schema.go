package flights

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chrissnell/routedelay/internal/horizon"
)

// Record is one row of the flights table
type Record struct {
	FlightDate   time.Time
	Origin       string
	Dest         string
	Cancelled    bool
	Diverted     bool
	ArrDelay     *float64 // nil for cancelled and diverted flights
	WeatherDelay *float64
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS flights (
	flight_date   TEXT NOT NULL,
	ORIGIN        TEXT NOT NULL,
	DEST          TEXT NOT NULL,
	CANCELLED     INTEGER NOT NULL DEFAULT 0,
	ARR_DELAY     REAL,
	WEATHER_DELAY REAL,
	DIVERTED      INTEGER NOT NULL DEFAULT 0
)`

const createIndexSQL = `CREATE INDEX IF NOT EXISTS idx_flights_route_date ON flights (ORIGIN, DEST, flight_date)`

// CreateSchema creates the flights table in a writable SQLite dataset
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create flights table: %w", err)
	}
	if _, err := db.ExecContext(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("failed to create flights index: %w", err)
	}
	return nil
}

// InsertRecords appends records to the flights table in a single transaction
func InsertRecords(ctx context.Context, db *sql.DB, records []Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO flights
		(flight_date, ORIGIN, DEST, CANCELLED, ARR_DELAY, WEATHER_DELAY, DIVERTED)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.FlightDate.Format(horizon.DateLayout),
			r.Origin,
			r.Dest,
			boolToInt(r.Cancelled),
			nullFloat(r.ArrDelay),
			nullFloat(r.WeatherDelay),
			boolToInt(r.Diverted),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert %s %s->%s: %w", r.FlightDate.Format(horizon.DateLayout), r.Origin, r.Dest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit flight records: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

package flights

import (
	"context"
	"fmt"
	"time"
)

const pgCreateTableSQL = `
CREATE TABLE IF NOT EXISTS flights (
    flight_date date NOT NULL,
    origin char(3) NOT NULL,
    dest char(3) NOT NULL,
    cancelled int2 NOT NULL DEFAULT 0,
    arr_delay float4 NULL,
    weather_delay float4 NULL,
    diverted int2 NOT NULL DEFAULT 0
);`

const pgCreateExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb;`

const pgCreateHypertableSQL = `SELECT create_hypertable('flights', 'flight_date', if_not_exists => true, migrate_data => true);`

const pgCreateIndexSQL = `CREATE INDEX IF NOT EXISTS idx_flights_route_date ON flights (origin, dest, flight_date DESC);`

// flightRow maps Record onto the flights table for GORM inserts
type flightRow struct {
	FlightDate   time.Time `gorm:"column:flight_date;type:date"`
	Origin       string    `gorm:"column:origin"`
	Dest         string    `gorm:"column:dest"`
	Cancelled    int       `gorm:"column:cancelled"`
	ArrDelay     *float64  `gorm:"column:arr_delay"`
	WeatherDelay *float64  `gorm:"column:weather_delay"`
	Diverted     int       `gorm:"column:diverted"`
}

// TableName implements the GORM Tabler interface
func (flightRow) TableName() string {
	return TableName
}

// CreateSchema creates the flights hypertable and its route index
func (s *TimescaleStore) CreateSchema(ctx context.Context) error {
	err := s.db.WithContext(ctx).Exec(pgCreateTableSQL).Error
	if err != nil {
		return fmt.Errorf("could not create flights table: %w", err)
	}

	err = s.db.WithContext(ctx).Exec(pgCreateExtensionSQL).Error
	if err != nil {
		return fmt.Errorf("could not create TimescaleDB extension: %w", err)
	}

	err = s.db.WithContext(ctx).Exec(pgCreateHypertableSQL).Error
	if err != nil {
		return fmt.Errorf("could not create flights hypertable: %w", err)
	}

	err = s.db.WithContext(ctx).Exec(pgCreateIndexSQL).Error
	if err != nil {
		return fmt.Errorf("could not create flights index: %w", err)
	}
	return nil
}

// InsertRecords appends records to the flights hypertable
func (s *TimescaleStore) InsertRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]flightRow, len(records))
	for i, r := range records {
		rows[i] = flightRow{
			FlightDate:   r.FlightDate,
			Origin:       r.Origin,
			Dest:         r.Dest,
			Cancelled:    boolToInt(r.Cancelled),
			ArrDelay:     r.ArrDelay,
			WeatherDelay: r.WeatherDelay,
			Diverted:     boolToInt(r.Diverted),
		}
	}

	if err := s.db.WithContext(ctx).CreateInBatches(rows, 1000).Error; err != nil {
		return fmt.Errorf("failed to insert flight records: %w", err)
	}
	return nil
}

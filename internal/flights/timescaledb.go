package flights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/routedelay/internal/log"
)

// TimescaleStore queries a flights table in TimescaleDB (or plain PostgreSQL)
type TimescaleStore struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewTimescaleStore connects to the database holding the flights table
func NewTimescaleStore(connectionString string, zlogger *zap.SugaredLogger) (*TimescaleStore, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("dataset.connection-string must be set for the timescaledb backend")
	}

	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	zlogger.Info("connecting to TimescaleDB...")
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("unable to create a TimescaleDB connection: %w", err)
	}
	zlogger.Info("TimescaleDB connection successful")

	return &TimescaleStore{db: db, logger: zlogger}, nil
}

// Count implements Store
func (s *TimescaleStore) Count(ctx context.Context, q Query, o Outcome) (int64, error) {
	query, args, err := postgresDialect.countSQL(q, o)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&n).Error; err != nil {
		return 0, fmt.Errorf("%s count for %s: %w", o, q, err)
	}
	return n, nil
}

// ArrivalDelays implements Store
func (s *TimescaleStore) ArrivalDelays(ctx context.Context, q Query) ([]float64, error) {
	query, args, err := postgresDialect.delaysSQL(q)
	if err != nil {
		return nil, err
	}

	var delays []float64
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&delays).Error; err != nil {
		return nil, fmt.Errorf("arrival delays for %s: %w", q, err)
	}
	return delays, nil
}

// Close closes the underlying connection pool
func (s *TimescaleStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

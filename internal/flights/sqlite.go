package flights

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore queries a single SQLite dataset file. Every query opens the file read-only,
// runs one aggregate and closes it again.
type SQLiteStore struct {
	path   string
	logger *zap.SugaredLogger
}

// ResolveDataset returns the first candidate path that is a readable regular file
func ResolveDataset(paths []string) (string, error) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		f.Close()
		return p, nil
	}
	return "", fmt.Errorf("%w: tried %s", ErrDatasetNotFound, strings.Join(paths, ", "))
}

// NewSQLiteStore resolves the dataset among paths, in priority order
func NewSQLiteStore(paths []string, logger *zap.SugaredLogger) (*SQLiteStore, error) {
	path, err := ResolveDataset(paths)
	if err != nil {
		return nil, err
	}
	logger.Infof("using flight dataset %s", path)
	return &SQLiteStore{path: path, logger: logger}, nil
}

// Path returns the resolved dataset file
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open flight dataset %s: %w", s.path, err)
	}
	return db, nil
}

// Count implements Store
func (s *SQLiteStore) Count(ctx context.Context, q Query, o Outcome) (int64, error) {
	query, args, err := sqliteDialect.countSQL(q, o)
	if err != nil {
		return 0, err
	}

	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	s.logger.Debugw("running route query", "outcome", o.String(), "sql", query, "args", args)

	var n int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s count for %s: %w", o, q, err)
	}
	return n, nil
}

// ArrivalDelays implements Store
func (s *SQLiteStore) ArrivalDelays(ctx context.Context, q Query) ([]float64, error) {
	query, args, err := sqliteDialect.delaysSQL(q)
	if err != nil {
		return nil, err
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("arrival delays for %s: %w", q, err)
	}
	defer rows.Close()

	var delays []float64
	for rows.Next() {
		var d float64
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan arrival delay: %w", err)
		}
		delays = append(delays, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("arrival delays for %s: %w", q, err)
	}
	return delays, nil
}

// Close is a no-op; SQLiteStore holds no open handle between queries
func (s *SQLiteStore) Close() error {
	return nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chrissnell/routedelay/internal/airports"
	"github.com/chrissnell/routedelay/internal/flights"
	"github.com/chrissnell/routedelay/internal/log"
)

func main() {
	var (
		dbFile    = flag.String("db", "data/flights.db", "Path to the SQLite flight dataset (created if missing)")
		pgConn    = flag.String("timescaledb", "", "Import into TimescaleDB at this connection string instead of SQLite")
		batchSize = flag.Int("batch", 5000, "Number of records inserted per transaction")
		knownOnly = flag.Bool("known-only", true, "Skip flights whose origin or destination is not in the airport list")
		lenient   = flag.Bool("lenient", false, "Skip malformed rows instead of aborting")
		debug     = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <ontime.csv> [more.csv ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if *batchSize < 1 {
		*batchSize = 1
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	var (
		insert func(context.Context, []flights.Record) error
		target string
	)
	if *pgConn != "" {
		store, err := flights.NewTimescaleStore(*pgConn, log.GetSugaredLogger())
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer store.Close()
		if err := store.CreateSchema(ctx); err != nil {
			log.Fatalf("%v", err)
		}
		insert, target = store.InsertRecords, "timescaledb"
	} else {
		db, err := openSQLite(ctx, *dbFile)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer db.Close()
		insert = func(ctx context.Context, records []flights.Record) error {
			return flights.InsertRecords(ctx, db, records)
		}
		target = *dbFile
	}

	imp := &importer{insert: insert, batchSize: *batchSize, knownOnly: *knownOnly, lenient: *lenient}
	for _, path := range flag.Args() {
		start := time.Now()
		before := imp.imported
		if err := imp.importFile(ctx, path); err != nil {
			log.Fatalf("import of %s failed: %v", path, err)
		}
		log.Infow("imported file", "file", path, "records", imp.imported-before, "duration", time.Since(start).String())
	}

	log.Infof("import complete: %d records imported, %d skipped, dataset %s", imp.imported, imp.skipped, target)
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	if err := flights.CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type importer struct {
	insert    func(context.Context, []flights.Record) error
	batchSize int
	knownOnly bool
	lenient   bool
	imported  int
	skipped   int
}

func (imp *importer) importFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := flights.NewCSVReader(f)
	if err != nil {
		return err
	}

	batch := make([]flights.Record, 0, imp.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := imp.insert(ctx, batch); err != nil {
			return err
		}
		imp.imported += len(batch)
		log.Debugf("inserted %d records (line %d)", len(batch), r.Line())
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if imp.lenient {
				log.Warnf("%s: skipping row: %v", path, err)
				imp.skipped++
				continue
			}
			return err
		}

		if imp.knownOnly && (!airports.Valid(rec.Origin) || !airports.Valid(rec.Dest)) {
			imp.skipped++
			continue
		}

		batch = append(batch, rec)
		if len(batch) >= imp.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

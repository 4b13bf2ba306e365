package flights

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/routedelay/internal/horizon"
)

func minutes(v float64) *float64 {
	return &v
}

func day(s string) time.Time {
	t, err := time.Parse(horizon.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// fixtureRecords describes ONT->DFW with every outcome inside the three month window,
// plus rows that must never be counted for it.
func fixtureRecords() []Record {
	return []Record{
		{FlightDate: day("2025-04-10"), Origin: "ONT", Dest: "DFW", ArrDelay: minutes(5)},
		{FlightDate: day("2025-04-11"), Origin: "ONT", Dest: "DFW", ArrDelay: minutes(-3)},
		{FlightDate: day("2025-04-12"), Origin: "ONT", Dest: "DFW", ArrDelay: minutes(40), WeatherDelay: minutes(20)},
		{FlightDate: day("2025-05-01"), Origin: "ONT", Dest: "DFW", ArrDelay: minutes(16), WeatherDelay: minutes(0)},
		{FlightDate: day("2025-05-02"), Origin: "ONT", Dest: "DFW", Cancelled: true},
		{FlightDate: day("2025-05-03"), Origin: "ONT", Dest: "DFW", Diverted: true},
		{FlightDate: day("2025-04-20"), Origin: "ONT", Dest: "DFW"},
		{FlightDate: day("2025-06-30"), Origin: "ONT", Dest: "DFW", ArrDelay: minutes(15)},
		{FlightDate: day("2025-03-31"), Origin: "ONT", Dest: "DFW", ArrDelay: minutes(0)},
		{FlightDate: day("2025-07-01"), Origin: "ONT", Dest: "DFW", ArrDelay: minutes(90)},
		{FlightDate: day("2025-04-15"), Origin: "DFW", Dest: "ONT", ArrDelay: minutes(60)},
		{FlightDate: day("2025-04-15"), Origin: "LAX", Dest: "DFW", ArrDelay: minutes(2)},
	}
}

func writeDataset(t *testing.T, records []Record) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flights.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to create dataset: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := CreateSchema(ctx, db); err != nil {
		t.Fatal(err)
	}
	if err := InsertRecords(ctx, db, records); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := writeDataset(t, fixtureRecords())
	store, err := NewSQLiteStore([]string{filepath.Join(t.TempDir(), "missing.db"), path}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	return store
}

func TestResolveDatasetPriority(t *testing.T) {
	primary := writeDataset(t, nil)
	fallback := writeDataset(t, nil)
	missing := filepath.Join(t.TempDir(), "nope.db")

	tests := []struct {
		name    string
		paths   []string
		want    string
		wantErr bool
	}{
		{name: "primary wins", paths: []string{primary, fallback}, want: primary},
		{name: "fallback used", paths: []string{missing, fallback}, want: fallback},
		{name: "directory skipped", paths: []string{t.TempDir(), fallback}, want: fallback},
		{name: "nothing found", paths: []string{missing, ""}, wantErr: true},
		{name: "no candidates", paths: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDataset(tt.paths)
			if tt.wantErr {
				if !errors.Is(err, ErrDatasetNotFound) {
					t.Fatalf("ResolveDataset() error = %v, want ErrDatasetNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDataset() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveDataset() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSQLiteStoreCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		horizon horizon.Horizon
		want    OutcomeCounts
	}{
		{
			name:    "three months",
			horizon: horizon.ThreeMonths,
			want:    OutcomeCounts{Scheduled: 8, OnTime: 3, Delayed: 2, Cancelled: 1, Diverted: 1, WeatherDelayed: 1},
		},
		{
			name:    "six months includes march",
			horizon: horizon.SixMonths,
			want:    OutcomeCounts{Scheduled: 9, OnTime: 4, Delayed: 2, Cancelled: 1, Diverted: 1, WeatherDelayed: 1},
		},
		{
			name:    "one month includes the end date",
			horizon: horizon.OneMonth,
			want:    OutcomeCounts{Scheduled: 1, OnTime: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Query{Origin: "ONT", Destination: "DFW", Horizon: tt.horizon}
			got, err := Counts(ctx, store, q)
			if err != nil {
				t.Fatalf("Counts() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Counts() = %+v, want %+v", got, tt.want)
			}

			for _, o := range Outcomes() {
				if n := got.Get(o); n < 0 || n > got.Scheduled {
					t.Errorf("%v count %d outside [0, %d]", o, n, got.Scheduled)
				}
			}
			if got.Unclassified() < 0 {
				t.Errorf("disjoint outcomes add up to more than scheduled: %+v", got)
			}
		})
	}
}

func TestSQLiteStoreUnknownRoute(t *testing.T) {
	store := newTestStore(t)
	got, err := Counts(context.Background(), store, Query{Origin: "SEA", Destination: "BOS", Horizon: horizon.Max})
	if err != nil {
		t.Fatal(err)
	}
	if got != (OutcomeCounts{}) {
		t.Errorf("expected all zero counts, got %+v", got)
	}
}

func TestSQLiteStoreArrivalDelays(t *testing.T) {
	store := newTestStore(t)
	delays, err := store.ArrivalDelays(context.Background(), Query{Origin: "ONT", Destination: "DFW", Horizon: horizon.ThreeMonths})
	if err != nil {
		t.Fatal(err)
	}
	// 5, -3, 40, 16, 15; cancelled, diverted and the null-delay flight are excluded
	if len(delays) != 5 {
		t.Fatalf("got %d delays (%v), want 5", len(delays), delays)
	}
}

func TestCountRejectsInvalidQuery(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Count(context.Background(), Query{Origin: "ONT", Destination: "DFW", Horizon: horizon.Horizon(99)}, Scheduled)
	if !errors.Is(err, horizon.ErrUnknownHorizon) {
		t.Errorf("expected ErrUnknownHorizon, got %v", err)
	}
	_, err = store.Count(context.Background(), Query{Origin: "ONTARIO", Destination: "DFW", Horizon: horizon.OneYear}, Scheduled)
	if err == nil {
		t.Error("expected long airport code to be rejected")
	}
}

func TestCountSQL(t *testing.T) {
	q := Query{Origin: "ONT", Destination: "DFW", Horizon: horizon.ThreeMonths}

	tests := []struct {
		outcome  Outcome
		contains []string
		nargs    int
	}{
		{outcome: Scheduled, contains: []string{"count(*)", "FROM flights", "flight_date BETWEEN ? AND ?"}, nargs: 4},
		{outcome: Cancelled, contains: []string{"CANCELLED = ?"}, nargs: 5},
		{outcome: Delayed, contains: []string{"CANCELLED = ?", "DIVERTED = ?", "ARR_DELAY > ?"}, nargs: 7},
		{outcome: OnTime, contains: []string{"ARR_DELAY <= ?"}, nargs: 7},
		{outcome: Diverted, contains: []string{"DIVERTED = ?"}, nargs: 6},
		{outcome: WeatherDelayed, contains: []string{"WEATHER_DELAY > ?"}, nargs: 6},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			query, args, err := sqliteDialect.countSQL(q, tt.outcome)
			if err != nil {
				t.Fatal(err)
			}
			for _, c := range tt.contains {
				if !strings.Contains(query, c) {
					t.Errorf("query %q does not contain %q", query, c)
				}
			}
			if len(args) != tt.nargs {
				t.Errorf("got %d args %v, want %d", len(args), args, tt.nargs)
			}
			if args[0] != "2025-04-01" || args[1] != "2025-06-30" {
				t.Errorf("window args = %v, %v", args[0], args[1])
			}
		})
	}

	pgQuery, _, err := postgresDialect.countSQL(q, Scheduled)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pgQuery, "CAST(? AS DATE)") {
		t.Errorf("postgres query %q does not cast the window bounds", pgQuery)
	}
}

type failingStore struct {
	failOn Outcome
	calls  []Outcome
}

func (f *failingStore) Count(ctx context.Context, q Query, o Outcome) (int64, error) {
	f.calls = append(f.calls, o)
	if o == f.failOn {
		return 0, errors.New("disk on fire")
	}
	return 1, nil
}

func (f *failingStore) ArrivalDelays(ctx context.Context, q Query) ([]float64, error) {
	return nil, nil
}

func (f *failingStore) Close() error { return nil }

func TestCountsAbortsOnFirstFailure(t *testing.T) {
	store := &failingStore{failOn: Delayed}
	got, err := Counts(context.Background(), store, Query{Origin: "ONT", Destination: "DFW", Horizon: horizon.OneYear})
	if err == nil {
		t.Fatal("expected an error")
	}
	if got != (OutcomeCounts{}) {
		t.Errorf("partial counts leaked: %+v", got)
	}
	if len(store.calls) != 3 {
		t.Errorf("expected the batch to stop after 3 queries, ran %v", store.calls)
	}
}

func TestDelayStats(t *testing.T) {
	if got := DelayStats(nil); got != (DelayStatistics{}) {
		t.Errorf("DelayStats(nil) = %+v", got)
	}

	got := DelayStats([]float64{30, 10, 20})
	if got.Count != 3 || got.Mean != 20 || got.Median != 20 || got.P90 != 30 {
		t.Errorf("DelayStats = %+v", got)
	}
	if got.StdDev != 10 {
		t.Errorf("StdDev = %v, want 10", got.StdDev)
	}

	single := DelayStats([]float64{7})
	if single.StdDev != 0 || single.Mean != 7 {
		t.Errorf("single sample stats = %+v", single)
	}
}

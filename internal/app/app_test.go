package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/routedelay/internal/flights"
	"github.com/chrissnell/routedelay/pkg/config"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func writeConfig(t *testing.T, datasetPath string, port int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf(`
dataset:
  paths:
    - %s
weather:
  enabled: false
controllers:
  - type: rest
    rest:
      listen-addr: 127.0.0.1
      port: %d
`, datasetPath, port)
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunShutsDownOnCancel(t *testing.T) {
	dataset := filepath.Join(t.TempDir(), "flights.db")
	db, err := sql.Open("sqlite", dataset)
	if err != nil {
		t.Fatal(err)
	}
	if err := flights.CreateSchema(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	db.Close()

	provider := config.NewYAMLProvider(writeConfig(t, dataset, freePort(t)))
	if _, err := provider.LoadConfig(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(provider, zap.NewNop().Sugar()).Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRunMissingDataset(t *testing.T) {
	provider := config.NewYAMLProvider(writeConfig(t, filepath.Join(t.TempDir(), "missing.db"), freePort(t)))

	err := New(provider, zap.NewNop().Sugar()).Run(context.Background())
	if !errors.Is(err, flights.ErrDatasetNotFound) {
		t.Fatalf("err = %v, want ErrDatasetNotFound", err)
	}
}

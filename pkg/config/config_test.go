package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestYAMLProvider(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErr     bool
		wantBackend string
		wantPaths   []string
		wantWeather bool
		wantTimeout time.Duration
		wantPort    int
	}{
		{
			name:        "empty file gets defaults",
			yaml:        "",
			wantBackend: DatasetBackendSQLite,
			wantPaths:   DefaultDatasetPaths,
			wantWeather: true,
			wantTimeout: 5 * time.Second,
		},
		{
			name: "explicit values",
			yaml: `
dataset:
  backend: sqlite
  paths:
    - /srv/flights.db
    - /backup/flights.db
weather:
  enabled: false
  timeout: 2s
controllers:
  - type: rest
    rest:
      listen-addr: 127.0.0.1
      port: 9090
`,
			wantBackend: DatasetBackendSQLite,
			wantPaths:   []string{"/srv/flights.db", "/backup/flights.db"},
			wantWeather: false,
			wantTimeout: 2 * time.Second,
			wantPort:    9090,
		},
		{
			name: "timescaledb needs a connection string",
			yaml: `
dataset:
  backend: timescaledb
`,
			wantErr: true,
		},
		{
			name: "unknown backend",
			yaml: `
dataset:
  backend: parquet
`,
			wantErr: true,
		},
		{
			name: "bad timeout",
			yaml: `
weather:
  timeout: soon
`,
			wantErr: true,
		},
		{
			name: "unknown controller",
			yaml: `
controllers:
  - type: aprs
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}

			p := NewYAMLProvider(path)
			cfg, err := p.LoadConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}

			if cfg.Dataset.Backend != tt.wantBackend {
				t.Errorf("backend = %q, want %q", cfg.Dataset.Backend, tt.wantBackend)
			}
			if !reflect.DeepEqual(cfg.Dataset.Paths, tt.wantPaths) {
				t.Errorf("paths = %v, want %v", cfg.Dataset.Paths, tt.wantPaths)
			}
			if cfg.Weather.IsEnabled() != tt.wantWeather {
				t.Errorf("weather enabled = %v, want %v", cfg.Weather.IsEnabled(), tt.wantWeather)
			}
			d, err := cfg.Weather.TimeoutDuration()
			if err != nil || d != tt.wantTimeout {
				t.Errorf("timeout = %v (%v), want %v", d, err, tt.wantTimeout)
			}
			if len(cfg.Controllers) != 1 || cfg.Controllers[0].RESTServer == nil {
				t.Fatalf("controllers = %+v, want one rest controller", cfg.Controllers)
			}
			if cfg.Controllers[0].RESTServer.Port != tt.wantPort {
				t.Errorf("port = %d, want %d", cfg.Controllers[0].RESTServer.Port, tt.wantPort)
			}

			ds, err := p.GetDatasetConfig()
			if err != nil || ds.Backend != tt.wantBackend {
				t.Errorf("GetDatasetConfig = %+v, %v", ds, err)
			}
		})
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	p := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := p.LoadConfig(); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := p.GetWeatherConfig(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()

	if err := p.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	disabled := false
	in := &ConfigData{
		Dataset: DatasetData{
			Backend: DatasetBackendSQLite,
			Paths:   []string{"/a/flights.db", "/b/flights.db"},
		},
		Weather: WeatherData{
			Enabled: &disabled,
			Timeout: "3s",
		},
		Controllers: []ControllerData{
			{Type: "rest", RESTServer: &RESTServerData{ListenAddr: "127.0.0.1", Port: 8181}},
		},
	}
	if err := p.SaveConfig(in); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !reflect.DeepEqual(cfg.Dataset.Paths, in.Dataset.Paths) {
		t.Errorf("paths = %v, want %v", cfg.Dataset.Paths, in.Dataset.Paths)
	}
	if cfg.Weather.IsEnabled() {
		t.Error("weather should be disabled")
	}
	if cfg.Weather.APIEndpoint != DefaultWeatherEndpoint {
		t.Errorf("endpoint = %q, want default", cfg.Weather.APIEndpoint)
	}
	if d, _ := cfg.Weather.TimeoutDuration(); d != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", d)
	}
	if len(cfg.Controllers) != 1 {
		t.Fatalf("got %d controllers, want 1", len(cfg.Controllers))
	}
	rest := cfg.Controllers[0].RESTServer
	if rest == nil || rest.Port != 8181 || rest.ListenAddr != "127.0.0.1" {
		t.Errorf("rest = %+v", rest)
	}
	if p.IsReadOnly() {
		t.Error("sqlite provider should be writable")
	}
}

func TestSQLiteProviderEmptyDatabase(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()
	if err := p.InitSchema(); err != nil {
		t.Fatal(err)
	}

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Dataset.Backend != DatasetBackendSQLite || len(cfg.Dataset.Paths) != len(DefaultDatasetPaths) {
		t.Errorf("dataset = %+v, want defaults", cfg.Dataset)
	}
	if !cfg.Weather.IsEnabled() {
		t.Error("weather should default to enabled")
	}
}

func TestSQLiteProviderInvalidBool(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err := p.InitSchema(); err != nil {
		t.Fatal(err)
	}
	if _, err := p.db.Exec(`INSERT INTO settings (key, value) VALUES ('weather.enabled', 'maybe')`); err != nil {
		t.Fatal(err)
	}
	if _, err := p.GetWeatherConfig(); err == nil {
		t.Fatal("expected parse error")
	}
}

package config

import (
	"fmt"
	"time"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetDatasetConfig() (*DatasetData, error)
	GetWeatherConfig() (*WeatherData, error)
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// Dataset backends
const (
	DatasetBackendSQLite      = "sqlite"
	DatasetBackendTimescaleDB = "timescaledb"
)

// Default dataset locations, checked in order
var DefaultDatasetPaths = []string{
	"data/flights.db",
	"/var/lib/routedelay/flights.db",
}

const (
	DefaultWeatherEndpoint = "https://aviationweather.gov/api/data/metar"
	DefaultWeatherTimeout  = "5s"
)

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Dataset     DatasetData      `json:"dataset"`
	Weather     WeatherData      `json:"weather"`
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// DatasetData says where the flight records live
type DatasetData struct {
	Backend          string   `json:"backend,omitempty"`
	Paths            []string `json:"paths,omitempty"`
	ConnectionString string   `json:"connection_string,omitempty"`
}

// WeatherData configures the METAR lookups
type WeatherData struct {
	Enabled     *bool  `json:"enabled,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`
	Timeout     string `json:"timeout,omitempty"`
}

// IsEnabled reports whether weather lookups are on. They are unless explicitly disabled.
func (w WeatherData) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// TimeoutDuration parses Timeout
func (w WeatherData) TimeoutDuration() (time.Duration, error) {
	if w.Timeout == "" {
		return time.ParseDuration(DefaultWeatherTimeout)
	}
	d, err := time.ParseDuration(w.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid weather timeout %q: %w", w.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("weather timeout must be positive, got %v", d)
	}
	return d, nil
}

// ControllerData holds the configuration for various controller backends
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

// RESTServerData configures the HTTP API
type RESTServerData struct {
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
	Port       int    `json:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
}

// ApplyDefaults fills in every unset value
func (c *ConfigData) ApplyDefaults() {
	if c.Dataset.Backend == "" {
		c.Dataset.Backend = DatasetBackendSQLite
	}
	if c.Dataset.Backend == DatasetBackendSQLite && len(c.Dataset.Paths) == 0 {
		c.Dataset.Paths = append([]string(nil), DefaultDatasetPaths...)
	}
	if c.Weather.APIEndpoint == "" {
		c.Weather.APIEndpoint = DefaultWeatherEndpoint
	}
	if c.Weather.Timeout == "" {
		c.Weather.Timeout = DefaultWeatherTimeout
	}
	if len(c.Controllers) == 0 {
		c.Controllers = []ControllerData{{Type: "rest", RESTServer: &RESTServerData{}}}
	}
	for i := range c.Controllers {
		if c.Controllers[i].Type == "rest" && c.Controllers[i].RESTServer == nil {
			c.Controllers[i].RESTServer = &RESTServerData{}
		}
	}
}

// Validate rejects configurations the application cannot run with
func (c *ConfigData) Validate() error {
	switch c.Dataset.Backend {
	case DatasetBackendSQLite:
		if len(c.Dataset.Paths) == 0 {
			return fmt.Errorf("dataset.paths must list at least one file for the sqlite backend")
		}
	case DatasetBackendTimescaleDB:
		if c.Dataset.ConnectionString == "" {
			return fmt.Errorf("dataset.connection-string must be set for the timescaledb backend")
		}
	default:
		return fmt.Errorf("unsupported dataset backend: %s", c.Dataset.Backend)
	}

	if _, err := c.Weather.TimeoutDuration(); err != nil {
		return err
	}

	for _, con := range c.Controllers {
		switch con.Type {
		case "rest", "restserver":
		default:
			return fmt.Errorf("unknown controller type: %s", con.Type)
		}
	}
	return nil
}

package config

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// Settings keys stored in the settings table
const (
	settingDatasetBackend    = "dataset.backend"
	settingDatasetPaths      = "dataset.paths"
	settingDatasetConnString = "dataset.connection-string"
	settingWeatherEnabled    = "weather.enabled"
	settingWeatherEndpoint   = "weather.api-endpoint"
	settingWeatherTimeout    = "weather.timeout"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS controller_configs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	controller_type  TEXT NOT NULL,
	enabled          INTEGER NOT NULL DEFAULT 1,
	rest_cert        TEXT,
	rest_key         TEXT,
	rest_port        INTEGER,
	rest_listen_addr TEXT
);
`

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// InitSchema creates the configuration tables if they do not exist
func (s *SQLiteProvider) InitSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create config schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	dataset, err := s.GetDatasetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset config: %w", err)
	}
	config.Dataset = *dataset

	weather, err := s.GetWeatherConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load weather config: %w", err)
	}
	config.Weather = *weather

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (s *SQLiteProvider) settings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// GetDatasetConfig returns the dataset configuration from the database
func (s *SQLiteProvider) GetDatasetConfig() (*DatasetData, error) {
	values, err := s.settings()
	if err != nil {
		return nil, err
	}

	dataset := &DatasetData{
		Backend:          values[settingDatasetBackend],
		ConnectionString: values[settingDatasetConnString],
	}
	for _, p := range strings.Split(values[settingDatasetPaths], ",") {
		if p = strings.TrimSpace(p); p != "" {
			dataset.Paths = append(dataset.Paths, p)
		}
	}
	return dataset, nil
}

// GetWeatherConfig returns the weather configuration from the database
func (s *SQLiteProvider) GetWeatherConfig() (*WeatherData, error) {
	values, err := s.settings()
	if err != nil {
		return nil, err
	}

	weather := &WeatherData{
		APIEndpoint: values[settingWeatherEndpoint],
		Timeout:     values[settingWeatherTimeout],
	}
	if v, ok := values[settingWeatherEnabled]; ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", settingWeatherEnabled, v, err)
		}
		weather.Enabled = &enabled
	}
	return weather, nil
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	query := `
		SELECT controller_type, rest_cert, rest_key, rest_port, rest_listen_addr
		FROM controller_configs
		WHERE enabled = 1
		ORDER BY id
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query controller configs: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var controllerType string
		var restCert, restKey, restListenAddr sql.NullString
		var restPort sql.NullInt64

		if err := rows.Scan(&controllerType, &restCert, &restKey, &restPort, &restListenAddr); err != nil {
			return nil, fmt.Errorf("failed to scan controller config row: %w", err)
		}

		controller := ControllerData{
			Type: controllerType,
		}
		switch controllerType {
		case "rest", "restserver":
			controller.RESTServer = &RESTServerData{
				Cert:       restCert.String,
				Key:        restKey.String,
				Port:       int(restPort.Int64),
				ListenAddr: restListenAddr.String,
			}
		}
		controllers = append(controllers, controller)
	}

	return controllers, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	if configData == nil {
		return errors.New("nil config")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM settings", "DELETE FROM controller_configs"} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("failed to clear existing config: %w", err)
		}
	}

	settings := map[string]string{
		settingDatasetBackend:    configData.Dataset.Backend,
		settingDatasetPaths:      strings.Join(configData.Dataset.Paths, ","),
		settingDatasetConnString: configData.Dataset.ConnectionString,
		settingWeatherEndpoint:   configData.Weather.APIEndpoint,
		settingWeatherTimeout:    configData.Weather.Timeout,
	}
	if configData.Weather.Enabled != nil {
		settings[settingWeatherEnabled] = strconv.FormatBool(*configData.Weather.Enabled)
	}
	for k, v := range settings {
		if v == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("failed to insert setting %s: %w", k, err)
		}
	}

	for _, controller := range configData.Controllers {
		if err := s.insertController(tx, &controller); err != nil {
			return fmt.Errorf("failed to insert controller %s: %w", controller.Type, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteProvider) insertController(tx *sql.Tx, controller *ControllerData) error {
	var cert, key, listenAddr sql.NullString
	var port sql.NullInt64
	if r := controller.RESTServer; r != nil {
		cert = sql.NullString{String: r.Cert, Valid: r.Cert != ""}
		key = sql.NullString{String: r.Key, Valid: r.Key != ""}
		listenAddr = sql.NullString{String: r.ListenAddr, Valid: r.ListenAddr != ""}
		port = sql.NullInt64{Int64: int64(r.Port), Valid: r.Port != 0}
	}

	query := `INSERT INTO controller_configs
		(controller_type, enabled, rest_cert, rest_key, rest_port, rest_listen_addr)
		VALUES (?, 1, ?, ?, ?, ?)`
	_, err := tx.Exec(query, controller.Type, cert, key, port, listenAddr)
	return err
}

package restserver

import (
	"github.com/chrissnell/routedelay/internal/airports"
	"github.com/chrissnell/routedelay/internal/horizon"
	"github.com/chrissnell/routedelay/internal/log"
)

// AirportsResponse lists every selectable airport
type AirportsResponse struct {
	Airports []airports.Airport `json:"airports"`
}

// HorizonsResponse lists the lookback presets, shortest first
type HorizonsResponse struct {
	Default  int              `json:"default"`
	Horizons []horizon.Preset `json:"horizons"`
}

// RequestLogResponse holds recent HTTP requests, oldest first
type RequestLogResponse struct {
	Count    int            `json:"count"`
	Requests []log.LogEntry `json:"requests"`
}

// Package metar looks up the current flight category at an airport from the
// aviationweather.gov METAR data API.
package metar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/routedelay/internal/constants"
)

// DefaultEndpoint is the METAR data API
const DefaultEndpoint = "https://aviationweather.gov/api/data/metar"

// DefaultTimeout bounds every request. Requests are never retried.
const DefaultTimeout = 5 * time.Second

var (
	// ErrNoObservation is returned when the service has no report for the station
	ErrNoObservation = errors.New("no METAR observation returned")
	// ErrNoICAO is returned when an airport code has no ICAO identifier
	ErrNoICAO = errors.New("no ICAO identifier for airport")
)

// Observation is one element of the API's JSON array response
type Observation struct {
	ICAOId     string  `json:"icaoId"`
	ReportTime string  `json:"reportTime"`
	Temp       float64 `json:"temp"`
	Dewp       float64 `json:"dewp"`
	Wdir       any     `json:"wdir"`  // degrees, or "VRB"
	Wspd       float64 `json:"wspd"`  // knots
	Visib      any     `json:"visib"` // statute miles, number or "10+"
	Altim      float64 `json:"altim"` // hPa
	RawOb      string  `json:"rawOb"`
	Name       string  `json:"name"`
	FltCat     string  `json:"fltCat"`
}

// Category returns the parsed flight category
func (o Observation) Category() Category {
	return ParseCategory(o.FltCat)
}

// Client fetches observations from the METAR API
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates a client. Empty endpoint and zero timeout select the defaults.
func NewClient(endpoint string, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch returns the first observation reported for icao
func (c *Client) Fetch(ctx context.Context, icao string) (*Observation, error) {
	v := url.Values{}
	v.Set("ids", icao)
	v.Set("format", "json")
	reqURL := c.endpoint + "?" + v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating METAR API request: %w", err)
	}
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debugf("Making request to METAR API: %v", reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request to METAR API: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("METAR API responded with status: %s", resp.Status)

	// The API answers 204 when it has nothing for the station
	if resp.StatusCode == http.StatusNoContent {
		return nil, fmt.Errorf("%w for %s", ErrNoObservation, icao)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response from METAR API for %s: %s", icao, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading METAR API response: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoObservation, icao)
	}

	var observations []Observation
	if err := json.Unmarshal(body, &observations); err != nil {
		return nil, fmt.Errorf("unable to decode METAR API response: %w", err)
	}
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoObservation, icao)
	}

	return &observations[0], nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

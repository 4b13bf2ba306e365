// Package analysis validates a route request and runs the counts, diagram and weather lookups
// that answer it.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/routedelay/internal/airports"
	"github.com/chrissnell/routedelay/internal/diagram"
	"github.com/chrissnell/routedelay/internal/flights"
	"github.com/chrissnell/routedelay/internal/horizon"
	"github.com/chrissnell/routedelay/internal/metar"
)

// Request is one analysis. Codes need not be normalized.
type Request struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Horizon     horizon.Horizon `json:"months"`
}

// Result is everything produced for one Request
type Result struct {
	ID          uuid.UUID               `json:"id"`
	Origin      string                  `json:"origin"`
	Destination string                  `json:"destination"`
	Horizon     string                  `json:"horizon"`
	Months      int                     `json:"months"`
	Start       string                  `json:"start"`
	End         string                  `json:"end"`
	Counts      flights.OutcomeCounts   `json:"counts"`
	Slices      []Slice                 `json:"slices"`
	Diagram     diagram.Diagram         `json:"diagram"`
	DiagramURL  string                  `json:"diagram_url"`
	Weather     metar.Pair              `json:"weather"`
	Stats       flights.DelayStatistics `json:"delay_stats"`
	Generated   time.Time               `json:"generated"`
}

// Analyzer runs analyses against one store and one weather source. It keeps no per-request
// state and is safe for concurrent use.
type Analyzer struct {
	store   flights.Store
	weather metar.Lookup
	logger  *zap.SugaredLogger
}

// NewAnalyzer creates an Analyzer. A nil weather lookup means weather is disabled.
func NewAnalyzer(store flights.Store, weather metar.Lookup, logger *zap.SugaredLogger) *Analyzer {
	if weather == nil {
		weather = metar.Disabled{}
	}
	return &Analyzer{
		store:   store,
		weather: weather,
		logger:  logger,
	}
}

// Validate normalizes the codes of r and checks them against the reference list.
// No query is run.
func Validate(r Request) (Request, error) {
	r.Origin = airports.Normalize(r.Origin)
	r.Destination = airports.Normalize(r.Destination)

	if r.Origin == "" || r.Destination == "" {
		return r, invalid(ErrMissingAirport, MsgMissingAirport)
	}
	if r.Origin == r.Destination {
		return r, invalid(ErrSameAirport, MsgSameAirport)
	}
	if !airports.Valid(r.Origin) || !airports.Valid(r.Destination) {
		return r, invalid(ErrUnknownAirport, MsgUnknownAirport)
	}
	if !r.Horizon.Valid() {
		return r, fmt.Errorf("%w: %d", horizon.ErrUnknownHorizon, int(r.Horizon))
	}
	return r, nil
}

// Analyze validates r, counts every outcome, draws the diagram, computes the delay
// distribution and looks up the weather at both airports. A weather failure never fails the
// analysis; a failed count does.
func (a *Analyzer) Analyze(ctx context.Context, r Request) (*Result, error) {
	r, err := Validate(r)
	if err != nil {
		return nil, err
	}

	window, err := r.Horizon.Window()
	if err != nil {
		return nil, err
	}

	q := flights.Query{Origin: r.Origin, Destination: r.Destination, Horizon: r.Horizon}
	a.logger.Debugf("analyzing %s over %s", q, window)

	counts, err := flights.Counts(ctx, a.store, q)
	if err != nil {
		return nil, err
	}

	delays, err := a.store.ArrivalDelays(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error loading arrival delays for %s: %w", q, err)
	}

	d := diagram.New(counts.Scheduled, r.Origin, r.Destination)
	url, err := d.DataURL()
	if err != nil {
		return nil, fmt.Errorf("error rendering route diagram: %w", err)
	}

	res := &Result{
		ID:          uuid.New(),
		Origin:      r.Origin,
		Destination: r.Destination,
		Horizon:     r.Horizon.Label(),
		Months:      r.Horizon.Months(),
		Start:       window.StartDate(),
		End:         window.EndDate(),
		Counts:      counts,
		Slices:      Slices(counts),
		Diagram:     d,
		DiagramURL:  url,
		Weather:     a.weather.LookupPair(ctx, r.Origin, r.Destination),
		Stats:       flights.DelayStats(delays),
		Generated:   time.Now().UTC(),
	}

	a.logger.Infow("route analyzed",
		"id", res.ID.String(),
		"route", q.String(),
		"scheduled", counts.Scheduled,
		"origin_weather", res.Weather.Origin.Code,
		"destination_weather", res.Weather.Destination.Code,
	)

	return res, nil
}

// Weather looks up both airports without running any count
func (a *Analyzer) Weather(ctx context.Context, origin, dest string) (metar.Pair, error) {
	r, err := Validate(Request{Origin: origin, Destination: dest, Horizon: horizon.OneMonth})
	if err != nil {
		return metar.Pair{}, err
	}
	return a.weather.LookupPair(ctx, r.Origin, r.Destination), nil
}

// Diagram validates r and draws the route graph from the scheduled count alone
func (a *Analyzer) Diagram(ctx context.Context, r Request) (diagram.Diagram, error) {
	r, err := Validate(r)
	if err != nil {
		return diagram.Diagram{}, err
	}

	q := flights.Query{Origin: r.Origin, Destination: r.Destination, Horizon: r.Horizon}
	n, err := a.store.Count(ctx, q, flights.Scheduled)
	if err != nil {
		return diagram.Diagram{}, fmt.Errorf("error counting scheduled flights for %s: %w", q, err)
	}
	return diagram.New(n, r.Origin, r.Destination), nil
}

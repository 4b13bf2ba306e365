package metar

import (
	"context"
	"errors"
	"sync"

	"github.com/chrissnell/routedelay/internal/airports"
)

// StatusCode says whether a lookup produced a category, and if not, why
type StatusCode string

const (
	StatusOK       StatusCode = "ok"
	StatusNoICAO   StatusCode = "no_icao"
	StatusNoData   StatusCode = "no_data"
	StatusTimeout  StatusCode = "timeout"
	StatusError    StatusCode = "error"
	StatusDisabled StatusCode = "disabled"
)

// Status is the weather result for one airport
type Status struct {
	Airport        string         `json:"airport"`
	ICAO           string         `json:"icao,omitempty"`
	Code           StatusCode     `json:"status"`
	Category       Category       `json:"category"`
	Classification Classification `json:"classification"`
	ReportTime     string         `json:"report_time,omitempty"`
	RawOb          string         `json:"raw,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Available reports whether a category was obtained
func (s Status) Available() bool {
	return s.Code == StatusOK
}

// Pair holds the results for both ends of a route
type Pair struct {
	Origin      Status `json:"origin"`
	Destination Status `json:"destination"`
}

// Lookup resolves the weather at both ends of a route
type Lookup interface {
	LookupPair(ctx context.Context, origin, dest string) Pair
}

func unavailable(code, icao string, sc StatusCode, err error) Status {
	s := Status{
		Airport:        code,
		ICAO:           icao,
		Code:           sc,
		Category:       Unknown,
		Classification: Classify(Unknown),
	}
	if err != nil {
		s.Error = err.Error()
	}
	return s
}

// LookupAirport resolves code to its ICAO identifier and fetches its flight category.
// Every failure is folded into the returned Status.
func (c *Client) LookupAirport(ctx context.Context, code string) Status {
	icao, ok := airports.ICAO(code)
	if !ok {
		return unavailable(code, "", StatusNoICAO, ErrNoICAO)
	}

	obs, err := c.Fetch(ctx, icao)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoObservation):
		c.logger.Warnf("no METAR available for %s (%s)", code, icao)
		return unavailable(code, icao, StatusNoData, err)
	case isTimeout(err):
		c.logger.Warnf("METAR lookup for %s (%s) timed out", code, icao)
		return unavailable(code, icao, StatusTimeout, err)
	default:
		c.logger.Errorf("METAR lookup for %s (%s) failed: %v", code, icao, err)
		return unavailable(code, icao, StatusError, err)
	}

	cat := obs.Category()
	return Status{
		Airport:        code,
		ICAO:           icao,
		Code:           StatusOK,
		Category:       cat,
		Classification: Classify(cat),
		ReportTime:     obs.ReportTime,
		RawOb:          obs.RawOb,
	}
}

// LookupPair fetches both airports concurrently and waits for both
func (c *Client) LookupPair(ctx context.Context, origin, dest string) Pair {
	var p Pair
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		p.Origin = c.LookupAirport(ctx, origin)
	}()
	go func() {
		defer wg.Done()
		p.Destination = c.LookupAirport(ctx, dest)
	}()
	wg.Wait()

	return p
}

// Disabled is a Lookup that reports weather as switched off
type Disabled struct{}

// LookupPair implements Lookup
func (Disabled) LookupPair(ctx context.Context, origin, dest string) Pair {
	return Pair{
		Origin:      unavailable(origin, "", StatusDisabled, nil),
		Destination: unavailable(dest, "", StatusDisabled, nil),
	}
}

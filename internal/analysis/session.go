package analysis

import (
	"context"
	"unicode/utf8"

	"github.com/chrissnell/routedelay/internal/airports"
	"github.com/chrissnell/routedelay/internal/horizon"
)

// DefaultHorizon is selected until SetHorizon is called
const DefaultHorizon = horizon.ThreeMonths

// Session accumulates one user's selections and runs the analysis for them.
// It is not safe for concurrent use; create one per request or per client.
type Session struct {
	analyzer    *Analyzer
	origin      string
	destination string
	horizon     horizon.Horizon
}

// NewSession creates a Session backed by a.
func (a *Analyzer) NewSession() *Session {
	return &Session{analyzer: a, horizon: DefaultHorizon}
}

// SetOrigin stores the normalized code. The returned error is a warning: the value is kept
// even when it is unknown or equals the destination.
func (s *Session) SetOrigin(code string) error {
	s.origin = airports.Normalize(code)
	return checkSelection(s.origin, s.destination, msgUnknownOrigin)
}

// SetDestination stores the normalized code, with the same warnings as SetOrigin.
func (s *Session) SetDestination(code string) error {
	s.destination = airports.Normalize(code)
	return checkSelection(s.destination, s.origin, msgUnknownDestination)
}

func checkSelection(v, other, unknownMsg string) error {
	if utf8.RuneCountInString(v) == 3 && !airports.Valid(v) {
		return invalid(ErrUnknownAirport, unknownMsg)
	}
	if v != "" && v == other {
		return invalid(ErrSameAirport, msgMustDiffer)
	}
	return nil
}

// SetHorizon selects the lookback window. Values outside the preset list are rejected and the
// previous selection is kept.
func (s *Session) SetHorizon(months int) error {
	h, err := horizon.Parse(months)
	if err != nil {
		return err
	}
	s.horizon = h
	return nil
}

func (s *Session) Origin() string           { return s.origin }
func (s *Session) Destination() string      { return s.destination }
func (s *Session) Horizon() horizon.Horizon { return s.horizon }

// Analyze runs the analysis for the current selections
func (s *Session) Analyze(ctx context.Context) (*Result, error) {
	return s.analyzer.Analyze(ctx, Request{
		Origin:      s.origin,
		Destination: s.destination,
		Horizon:     s.horizon,
	})
}

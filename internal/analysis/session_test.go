package analysis

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/chrissnell/routedelay/internal/horizon"
)

func TestSessionSetters(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		dest     string
		wantOErr error
		wantDErr error
		wantO    string
		wantD    string
	}{
		{"valid pair", "ont", "dfw", nil, nil, "ONT", "DFW"},
		{"truncated and trimmed", "  laxx ", "sfo", nil, nil, "LAX", "SFO"},
		{"unknown origin kept", "zzz", "dfw", ErrUnknownAirport, nil, "ZZZ", "DFW"},
		{"partial code is not an error", "on", "dfw", nil, nil, "ON", "DFW"},
		{"non-ascii code is unknown", "ééé", "dfw", ErrUnknownAirport, nil, "ÉÉÉ", "DFW"},
		{"same airport warns on second set", "ONT", "ont", nil, ErrSameAirport, "ONT", "ONT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAnalyzer(&fakeStore{}, nil, zap.NewNop().Sugar()).NewSession()

			if err := s.SetOrigin(tt.origin); !errors.Is(err, tt.wantOErr) {
				t.Errorf("SetOrigin err = %v, want %v", err, tt.wantOErr)
			}
			if err := s.SetDestination(tt.dest); !errors.Is(err, tt.wantDErr) {
				t.Errorf("SetDestination err = %v, want %v", err, tt.wantDErr)
			}
			if s.Origin() != tt.wantO || s.Destination() != tt.wantD {
				t.Errorf("stored %s->%s, want %s->%s", s.Origin(), s.Destination(), tt.wantO, tt.wantD)
			}
		})
	}
}

func TestSessionHorizon(t *testing.T) {
	s := NewAnalyzer(&fakeStore{}, nil, zap.NewNop().Sugar()).NewSession()

	if s.Horizon() != horizon.ThreeMonths {
		t.Errorf("default horizon = %v, want 3M", s.Horizon())
	}
	if err := s.SetHorizon(5); !errors.Is(err, horizon.ErrUnknownHorizon) {
		t.Errorf("SetHorizon(5) err = %v", err)
	}
	if s.Horizon() != horizon.ThreeMonths {
		t.Errorf("rejected horizon changed the selection to %v", s.Horizon())
	}
	if err := s.SetHorizon(90); err != nil {
		t.Fatalf("SetHorizon(90): %v", err)
	}
	if s.Horizon() != horizon.Max {
		t.Errorf("horizon = %v, want MAX", s.Horizon())
	}
}

func TestSessionAnalyze(t *testing.T) {
	store := &fakeStore{counts: routeCounts()}
	s := NewAnalyzer(store, &fakeWeather{}, zap.NewNop().Sugar()).NewSession()

	s.SetOrigin("ONT")
	if _, err := s.Analyze(context.Background()); !errors.Is(err, ErrMissingAirport) {
		t.Fatalf("err = %v, want ErrMissingAirport", err)
	}

	s.SetDestination("DFW")
	if err := s.SetHorizon(6); err != nil {
		t.Fatal(err)
	}
	res, err := s.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Start != "2025-01-01" {
		t.Errorf("start = %s, want 2025-01-01", res.Start)
	}
	if res.Diagram.Weight != 120 {
		t.Errorf("weight = %d, want 120", res.Diagram.Weight)
	}
}

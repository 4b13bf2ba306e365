// Package horizon maps the "months back" selector onto the date window the route dataset is
// filtered by.
package horizon

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownHorizon is returned for any selector outside the preset list
var ErrUnknownHorizon = errors.New("unknown horizon")

// DateLayout is the layout of every date literal the dataset is queried with
const DateLayout = "2006-01-02"

// DatasetEnd is the last flight date present in the dataset. The start-date table below is
// relative to it and must move together with it.
var DatasetEnd = mustDate("2025-06-30")

// Horizon is a lookback preset
type Horizon int

const (
	OneMonth Horizon = iota + 1
	ThreeMonths
	SixMonths
	OneYear
	TwoYears
	Max
)

type preset struct {
	months int
	label  string
	start  time.Time
}

var presets = map[Horizon]preset{
	OneMonth:    {months: 1, label: "1M", start: mustDate("2025-06-01")},
	ThreeMonths: {months: 3, label: "3M", start: mustDate("2025-04-01")},
	SixMonths:   {months: 6, label: "6M", start: mustDate("2025-01-01")},
	OneYear:     {months: 12, label: "1Y", start: mustDate("2024-06-30")},
	TwoYears:    {months: 24, label: "2Y", start: mustDate("2023-06-30")},
	Max:         {months: 96, label: "MAX", start: mustDate("2018-01-01")},
}

var order = []Horizon{OneMonth, ThreeMonths, SixMonths, OneYear, TwoYears, Max}

// Parse maps a months-back selector to its preset. 90 and 96 both select Max.
func Parse(months int) (Horizon, error) {
	switch months {
	case 1:
		return OneMonth, nil
	case 3:
		return ThreeMonths, nil
	case 6:
		return SixMonths, nil
	case 12:
		return OneYear, nil
	case 24:
		return TwoYears, nil
	case 90, 96:
		return Max, nil
	}
	return 0, fmt.Errorf("%w: %d months", ErrUnknownHorizon, months)
}

// ParseString accepts either the numeric selector ("3") or a preset label ("3M", "1Y", "max").
func ParseString(s string) (Horizon, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, h := range order {
		if presets[h].label == v {
			return h, nil
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHorizon, s)
	}
	return Parse(n)
}

// Valid reports whether h is one of the presets
func (h Horizon) Valid() bool {
	_, ok := presets[h]
	return ok
}

// Months returns the selector value for h
func (h Horizon) Months() int {
	return presets[h].months
}

// Label returns the short preset label shown next to the horizon buttons
func (h Horizon) Label() string {
	if p, ok := presets[h]; ok {
		return p.label
	}
	return fmt.Sprintf("Horizon(%d)", int(h))
}

func (h Horizon) String() string {
	return h.Label()
}

// MarshalJSON encodes h as its months-back selector
func (h Horizon) MarshalJSON() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHorizon, int(h))
	}
	return []byte(strconv.Itoa(h.Months())), nil
}

// UnmarshalJSON accepts a months-back selector as a number or a label string such as "1Y".
// Anything that is not a preset fails with ErrUnknownHorizon.
func (h *Horizon) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := ParseString(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Window is an inclusive date range
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartDate returns the start as a date literal
func (w Window) StartDate() string {
	return w.Start.Format(DateLayout)
}

// EndDate returns the end as a date literal
func (w Window) EndDate() string {
	return w.End.Format(DateLayout)
}

func (w Window) String() string {
	return w.StartDate() + ".." + w.EndDate()
}

// Window resolves h to its date range. It fails for values that did not come from Parse.
func (h Horizon) Window() (Window, error) {
	p, ok := presets[h]
	if !ok {
		return Window{}, fmt.Errorf("%w: %d", ErrUnknownHorizon, int(h))
	}
	return Window{Start: p.start, End: DatasetEnd}, nil
}

// Preset describes one horizon button
type Preset struct {
	Months int    `json:"months"`
	Label  string `json:"label"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// Presets lists every horizon in display order
func Presets() []Preset {
	out := make([]Preset, 0, len(order))
	for _, h := range order {
		p := presets[h]
		out = append(out, Preset{
			Months: p.months,
			Label:  p.label,
			Start:  p.start.Format(DateLayout),
			End:    DatasetEnd.Format(DateLayout),
		})
	}
	return out
}

// All returns every horizon in display order
func All() []Horizon {
	out := make([]Horizon, len(order))
	copy(out, order)
	return out
}

func mustDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

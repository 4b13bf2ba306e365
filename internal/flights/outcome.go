package flights

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// DelayThresholdMinutes is the arrival delay above which a flight counts as delayed
const DelayThresholdMinutes = 15

// Outcome selects which flights of a route window a count query matches
type Outcome int

const (
	// Scheduled matches every flight on the route in the window
	Scheduled Outcome = iota
	OnTime
	Delayed
	Cancelled
	Diverted
	// WeatherDelayed overlaps with Delayed and is reported on its own
	WeatherDelayed
)

var outcomeNames = map[Outcome]string{
	Scheduled:      "scheduled",
	OnTime:         "on_time",
	Delayed:        "delayed",
	Cancelled:      "cancelled",
	Diverted:       "diverted",
	WeatherDelayed: "weather_delayed",
}

func (o Outcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Outcomes lists every outcome in the order an analysis runs them
func Outcomes() []Outcome {
	return []Outcome{Scheduled, OnTime, Delayed, Cancelled, Diverted, WeatherDelayed}
}

// predicate returns the filter an outcome adds on top of route and window. On-time, delayed,
// cancelled and diverted are mutually exclusive.
func (o Outcome) predicate() (sq.Sqlizer, error) {
	switch o {
	case Scheduled:
		return nil, nil
	case OnTime:
		return sq.And{
			sq.Eq{"CANCELLED": 0},
			sq.Eq{"DIVERTED": 0},
			sq.LtOrEq{"ARR_DELAY": DelayThresholdMinutes},
		}, nil
	case Delayed:
		return sq.And{
			sq.Eq{"CANCELLED": 0},
			sq.Eq{"DIVERTED": 0},
			sq.Gt{"ARR_DELAY": DelayThresholdMinutes},
		}, nil
	case Cancelled:
		return sq.Eq{"CANCELLED": 1}, nil
	case Diverted:
		return sq.And{
			sq.Eq{"CANCELLED": 0},
			sq.Eq{"DIVERTED": 1},
		}, nil
	case WeatherDelayed:
		return sq.And{
			sq.Eq{"CANCELLED": 0},
			sq.Gt{"WEATHER_DELAY": DelayThresholdMinutes},
		}, nil
	}
	return nil, fmt.Errorf("unknown outcome %d", int(o))
}

package flights

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DelayStatistics summarizes the arrival delays of a route window, in minutes
type DelayStatistics struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	StdDev float64 `json:"stddev"`
}

// DelayStats computes summary statistics over delays. It returns the zero value for no data.
func DelayStats(delays []float64) DelayStatistics {
	if len(delays) == 0 {
		return DelayStatistics{}
	}

	x := make([]float64, len(delays))
	copy(x, delays)
	sort.Float64s(x)

	s := DelayStatistics{
		Count:  len(x),
		Mean:   stat.Mean(x, nil),
		Median: stat.Quantile(0.5, stat.Empirical, x, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, x, nil),
	}
	if len(x) > 1 {
		s.StdDev = stat.StdDev(x, nil)
	}
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	return s
}

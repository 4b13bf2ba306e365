package analysis

import "github.com/chrissnell/routedelay/internal/flights"

// Slice is one segment of the outcome chart
type Slice struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
	Color string `json:"color"`
}

var sliceStyles = []struct {
	outcome flights.Outcome
	label   string
	color   string
}{
	{flights.OnTime, "On time", "#4ade80"},
	{flights.Delayed, "Delayed", "#facc15"},
	{flights.Cancelled, "Cancelled", "#f87171"},
	{flights.Diverted, "Diverted", "#9ec5ff"},
}

// Slices turns counts into chart segments in fixed order. Outcomes with a zero count get no
// segment at all.
func Slices(c flights.OutcomeCounts) []Slice {
	out := make([]Slice, 0, len(sliceStyles))
	for _, s := range sliceStyles {
		n := c.Get(s.outcome)
		if n == 0 {
			continue
		}
		out = append(out, Slice{Label: s.label, Count: n, Color: s.color})
	}
	return out
}

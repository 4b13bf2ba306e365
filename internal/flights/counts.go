package flights

import (
	"context"
	"fmt"
)

// OutcomeCounts holds every count of one route window
type OutcomeCounts struct {
	Scheduled      int64 `json:"scheduled"`
	OnTime         int64 `json:"on_time"`
	Delayed        int64 `json:"delayed"`
	Cancelled      int64 `json:"cancelled"`
	Diverted       int64 `json:"diverted"`
	WeatherDelayed int64 `json:"weather_delayed"`
}

// Get returns the count for o
func (c OutcomeCounts) Get(o Outcome) int64 {
	switch o {
	case Scheduled:
		return c.Scheduled
	case OnTime:
		return c.OnTime
	case Delayed:
		return c.Delayed
	case Cancelled:
		return c.Cancelled
	case Diverted:
		return c.Diverted
	case WeatherDelayed:
		return c.WeatherDelayed
	}
	return 0
}

func (c *OutcomeCounts) set(o Outcome, n int64) {
	switch o {
	case Scheduled:
		c.Scheduled = n
	case OnTime:
		c.OnTime = n
	case Delayed:
		c.Delayed = n
	case Cancelled:
		c.Cancelled = n
	case Diverted:
		c.Diverted = n
	case WeatherDelayed:
		c.WeatherDelayed = n
	}
}

// Unclassified is the number of scheduled flights that fall in none of the four disjoint
// outcomes, typically completed flights with no recorded arrival delay.
func (c OutcomeCounts) Unclassified() int64 {
	return c.Scheduled - c.OnTime - c.Delayed - c.Cancelled - c.Diverted
}

// Counts runs every outcome query for q, one after another. The first failure aborts the batch.
func Counts(ctx context.Context, store Store, q Query) (OutcomeCounts, error) {
	var counts OutcomeCounts

	if err := q.Validate(); err != nil {
		return counts, err
	}

	for _, o := range Outcomes() {
		n, err := store.Count(ctx, q, o)
		if err != nil {
			return OutcomeCounts{}, fmt.Errorf("route analysis for %s failed: %w", q, err)
		}
		counts.set(o, n)
	}

	return counts, nil
}

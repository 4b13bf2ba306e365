package metar

import (
	"fmt"
	"strings"
)

// Category is the ceiling/visibility flight category of an observation, ordered best to worst.
// Unknown sorts after every reported category.
type Category int

const (
	VFR Category = iota
	MVFR
	IFR
	LIFR
	VLIFR
	Unknown
)

var categoryNames = map[Category]string{
	VFR:     "VFR",
	MVFR:    "MVFR",
	IFR:     "IFR",
	LIFR:    "LIFR",
	VLIFR:   "VLIFR",
	Unknown: "UNKNOWN",
}

// ParseCategory maps a fltCat value onto a Category. Anything unrecognized is Unknown.
func ParseCategory(s string) Category {
	v := strings.ToUpper(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == v {
			return c
		}
	}
	return Unknown
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalText encodes the category by name
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name
func (c *Category) UnmarshalText(b []byte) error {
	*c = ParseCategory(string(b))
	return nil
}

// Classification is the user-facing explanation of a category
type Classification struct {
	Explanation string `json:"explanation"`
	Color       string `json:"color"`
}

var classifications = map[Category]Classification{
	VFR: {
		Explanation: "Visual flight rules: ceiling above 3,000 ft and visibility above 5 miles. Weather delays are unlikely.",
		Color:       "green",
	},
	MVFR: {
		Explanation: "Marginal visual flight rules: ceiling 1,000 to 3,000 ft or visibility 3 to 5 miles. Minor delays are possible.",
		Color:       "blue",
	},
	IFR: {
		Explanation: "Instrument flight rules: ceiling 500 to 999 ft or visibility 1 to 3 miles. Arrival rates are reduced.",
		Color:       "red",
	},
	LIFR: {
		Explanation: "Low instrument flight rules: ceiling 200 to 499 ft or visibility 1/2 to 1 mile. Expect delays.",
		Color:       "magenta",
	},
	VLIFR: {
		Explanation: "Very low instrument flight rules: ceiling below 200 ft or visibility below 1/2 mile. Significant delays are likely.",
		Color:       "purple",
	},
	Unknown: {
		Explanation: "The flight category for this airport is not available right now.",
		Color:       "gray",
	},
}

// Classify returns the explanation and severity color for c
func Classify(c Category) Classification {
	if cl, ok := classifications[c]; ok {
		return cl
	}
	return classifications[Unknown]
}

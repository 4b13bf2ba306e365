// Package airports holds the static reference list of airports the route dataset covers,
// keyed by three-letter code.
package airports

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
)

//go:embed airports.csv
var airportsCSV string

// Airport is one entry of the reference list
type Airport struct {
	Code string `json:"code"`
	ICAO string `json:"icao"`
	Name string `json:"name"`
}

var (
	byCode map[string]Airport
	sorted []Airport
)

func init() {
	list, err := parse(airportsCSV)
	if err != nil {
		panic(fmt.Sprintf("airports: bad embedded reference list: %v", err))
	}
	byCode = make(map[string]Airport, len(list))
	for _, a := range list {
		byCode[a.Code] = a
	}
	sorted = list
}

func parse(data string) ([]Airport, error) {
	r := csv.NewReader(strings.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("missing header")
	}

	out := make([]Airport, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", i+2, len(rec))
		}
		a := Airport{Code: rec[0], ICAO: rec[1], Name: rec[2]}
		if len(a.Code) != 3 || Normalize(a.Code) != a.Code {
			return nil, fmt.Errorf("line %d: bad code %q", i+2, a.Code)
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Normalize upper-cases and trims a user-entered code and truncates it to three characters.
func Normalize(code string) string {
	v := []rune(strings.ToUpper(strings.TrimSpace(code)))
	if len(v) > 3 {
		v = v[:3]
	}
	return string(v)
}

// Valid reports whether code is in the reference list. The code must already be normalized.
func Valid(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Lookup returns the airport for a normalized code
func Lookup(code string) (Airport, bool) {
	a, ok := byCode[code]
	return a, ok
}

// ICAO resolves a three-letter code to its ICAO identifier
func ICAO(code string) (string, bool) {
	a, ok := byCode[code]
	if !ok || a.ICAO == "" {
		return "", false
	}
	return a.ICAO, true
}

// All returns every known airport sorted by code
func All() []Airport {
	out := make([]Airport, len(sorted))
	copy(out, sorted)
	return out
}

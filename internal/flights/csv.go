package flights

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/routedelay/internal/airports"
)

// Accepted date formats, most common first. BTS downloads use the second one.
var csvDateLayouts = []string{
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"20060102",
}

// Column aliases, keyed by canonical name
var csvColumns = map[string][]string{
	"date":          {"fl_date", "flight_date", "flightdate"},
	"origin":        {"origin"},
	"dest":          {"dest"},
	"cancelled":     {"cancelled"},
	"arr_delay":     {"arr_delay"},
	"weather_delay": {"weather_delay"},
	"diverted":      {"diverted"},
}

// CSVReader reads flight records from an on-time performance CSV export
type CSVReader struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

// NewCSVReader reads the header row of r and locates the required columns
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Allow variable number of fields
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	cols := make(map[string]int, len(csvColumns))
	for name, aliases := range csvColumns {
		found := false
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				cols[name] = i
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("CSV is missing required column %s", strings.ToUpper(aliases[0]))
		}
	}

	return &CSVReader{r: cr, cols: cols, line: 1}, nil
}

// Read returns the next record, or io.EOF after the last one
func (c *CSVReader) Read() (Record, error) {
	row, err := c.r.Read()
	if err != nil {
		return Record{}, err
	}
	c.line++

	field := func(name string) string {
		i := c.cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec Record
	if rec.FlightDate, err = parseCSVDate(field("date")); err != nil {
		return Record{}, c.errorf("%v", err)
	}

	rec.Origin = airports.Normalize(field("origin"))
	rec.Dest = airports.Normalize(field("dest"))
	if rec.Origin == "" || rec.Dest == "" {
		return Record{}, c.errorf("missing origin or destination")
	}

	if rec.Cancelled, err = parseCSVFlag(field("cancelled")); err != nil {
		return Record{}, c.errorf("CANCELLED: %v", err)
	}
	if rec.Diverted, err = parseCSVFlag(field("diverted")); err != nil {
		return Record{}, c.errorf("DIVERTED: %v", err)
	}
	if rec.ArrDelay, err = parseCSVMinutes(field("arr_delay")); err != nil {
		return Record{}, c.errorf("ARR_DELAY: %v", err)
	}
	if rec.WeatherDelay, err = parseCSVMinutes(field("weather_delay")); err != nil {
		return Record{}, c.errorf("WEATHER_DELAY: %v", err)
	}

	return rec, nil
}

// Line returns the line number of the last record read
func (c *CSVReader) Line() int {
	return c.line
}

func (c *CSVReader) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", c.line, fmt.Sprintf(format, args...))
}

func parseCSVDate(s string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized flight date %q", s)
}

// parseCSVFlag accepts 0/1 in any numeric spelling ("1", "1.00") as well as true/false
func parseCSVFlag(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false, fmt.Errorf("invalid flag %q", s)
	}
	return f != 0, nil
}

func parseCSVMinutes(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid minutes %q", s)
	}
	return &f, nil
}

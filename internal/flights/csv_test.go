package flights

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestCSVReader(t *testing.T) {
	data := "\ufeffFL_DATE,OP_CARRIER,ORIGIN,DEST,CANCELLED,ARR_DELAY,WEATHER_DELAY,DIVERTED\n" +
		"4/2/2025 12:00:00 AM,WN,ONT,DFW,0.00,-4.00,,0.00\n" +
		"2025-04-03,AA,ont,dfw,1.00,,,0.00\n" +
		"2025-04-04,AA,ONT,DFW,0,35,20,0\n"

	r, err := NewCSVReader(strings.NewReader(data))
	if err != nil {
		t.Fatalf("NewCSVReader: %v", err)
	}

	var got []Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		got = append(got, rec)
	}

	if len(got) != 3 {
		t.Fatalf("read %d records, want 3", len(got))
	}

	first := got[0]
	if !first.FlightDate.Equal(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", first.FlightDate)
	}
	if first.ArrDelay == nil || *first.ArrDelay != -4 || first.WeatherDelay != nil {
		t.Errorf("delays = %v, %v", first.ArrDelay, first.WeatherDelay)
	}
	if first.Cancelled || first.Diverted {
		t.Errorf("flags = %v, %v", first.Cancelled, first.Diverted)
	}

	if got[1].Origin != "ONT" || got[1].Dest != "DFW" || !got[1].Cancelled || got[1].ArrDelay != nil {
		t.Errorf("second record = %+v", got[1])
	}
	if got[2].WeatherDelay == nil || *got[2].WeatherDelay != 20 {
		t.Errorf("weather delay = %v", got[2].WeatherDelay)
	}
}

func TestCSVReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing column", "FL_DATE,ORIGIN,DEST,CANCELLED,ARR_DELAY,DIVERTED\n2025-04-01,ONT,DFW,0,1,0\n"},
		{"bad date", "FL_DATE,ORIGIN,DEST,CANCELLED,ARR_DELAY,WEATHER_DELAY,DIVERTED\nyesterday,ONT,DFW,0,1,,0\n"},
		{"bad flag", "FL_DATE,ORIGIN,DEST,CANCELLED,ARR_DELAY,WEATHER_DELAY,DIVERTED\n2025-04-01,ONT,DFW,maybe,1,,0\n"},
		{"bad delay", "FL_DATE,ORIGIN,DEST,CANCELLED,ARR_DELAY,WEATHER_DELAY,DIVERTED\n2025-04-01,ONT,DFW,0,late,,0\n"},
		{"missing airport", "FL_DATE,ORIGIN,DEST,CANCELLED,ARR_DELAY,WEATHER_DELAY,DIVERTED\n2025-04-01,,DFW,0,1,,0\n"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewCSVReader(strings.NewReader(tt.data))
			if err != nil {
				return
			}
			if _, err := r.Read(); err == nil || errors.Is(err, io.EOF) {
				t.Errorf("expected a parse error, got %v", err)
			}
		})
	}
}

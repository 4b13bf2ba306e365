// Package report exports an analysis as a spreadsheet.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/chrissnell/routedelay/internal/analysis"
	"github.com/chrissnell/routedelay/internal/flights"
	"github.com/chrissnell/routedelay/internal/metar"
)

const (
	RouteSheet   = "Route"
	WeatherSheet = "Weather"
)

// WriteXLSX writes res as a workbook with a Route sheet (window, counts, delay statistics and
// the route diagram) and a Weather sheet (one row per airport).
func WriteXLSX(w io.Writer, res *analysis.Result) error {
	if res == nil {
		return fmt.Errorf("no analysis to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RouteSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(WeatherSheet); err != nil {
		return fmt.Errorf("failed to create weather sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeRouteSheet(f, res, bold); err != nil {
		return err
	}
	if err := writeWeatherSheet(f, res.Weather, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRouteSheet(f *excelize.File, res *analysis.Result, bold int) error {
	c := res.Counts
	share := func(n int64) interface{} {
		if c.Scheduled == 0 {
			return ""
		}
		return float64(n) / float64(c.Scheduled)
	}

	rows := [][]interface{}{
		{"Route", res.Origin + " -> " + res.Destination},
		{"Horizon", res.Horizon},
		{"Start", res.Start},
		{"End", res.End},
		{"Analysis ID", res.ID.String()},
		{},
		{"Outcome", "Flights", "Share"},
		{"Scheduled", c.Scheduled, share(c.Scheduled)},
		{"On time", c.OnTime, share(c.OnTime)},
		{"Delayed", c.Delayed, share(c.Delayed)},
		{"Cancelled", c.Cancelled, share(c.Cancelled)},
		{"Diverted", c.Diverted, share(c.Diverted)},
		{"Weather delayed", c.WeatherDelayed, share(c.WeatherDelayed)},
		{"Unclassified", c.Unclassified(), share(c.Unclassified())},
		{},
	}
	rows = append(rows, statsRows(res.Stats)...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}
		if err := f.SetSheetRow(RouteSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetCellStyle(RouteSheet, "A1", "A5", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(RouteSheet, "A7", "C7", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(RouteSheet, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(RouteSheet, "B", "B", 38); err != nil {
		return err
	}

	png, err := res.Diagram.PNG()
	if err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}
	if err := f.AddPictureFromBytes(RouteSheet, "E2", &excelize.Picture{
		Extension: ".png",
		File:      png,
		Format:    &excelize.GraphicOptions{AltText: res.Diagram.Title, ScaleX: 0.6, ScaleY: 0.6},
	}); err != nil {
		return fmt.Errorf("failed to embed diagram: %w", err)
	}

	return nil
}

func statsRows(s flights.DelayStatistics) [][]interface{} {
	return [][]interface{}{
		{"Arrival delay (min)", "Value"},
		{"Flights", s.Count},
		{"Mean", s.Mean},
		{"Median", s.Median},
		{"90th percentile", s.P90},
		{"Std deviation", s.StdDev},
	}
}

func writeWeatherSheet(f *excelize.File, p metar.Pair, bold int) error {
	header := []interface{}{"Airport", "ICAO", "Status", "Category", "Explanation", "Color", "Report time", "METAR", "Error"}
	if err := f.SetSheetRow(WeatherSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(WeatherSheet, "A1", "I1", bold); err != nil {
		return err
	}

	for i, s := range []metar.Status{p.Origin, p.Destination} {
		row := []interface{}{
			s.Airport, s.ICAO, string(s.Code), s.Category.String(),
			s.Classification.Explanation, s.Classification.Color,
			s.ReportTime, s.RawOb, s.Error,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(WeatherSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write weather row: %w", err)
		}
	}
	return f.SetColWidth(WeatherSheet, "E", "E", 48)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chrissnell/routedelay/internal/analysis"
	"github.com/chrissnell/routedelay/internal/flights"
	"github.com/chrissnell/routedelay/internal/horizon"
	"github.com/chrissnell/routedelay/internal/log"
	"github.com/chrissnell/routedelay/internal/metar"
	"github.com/chrissnell/routedelay/internal/report"
	"github.com/chrissnell/routedelay/pkg/config"
)

type options struct {
	cfgFile   string
	dbFile    string
	origin    string
	dest      string
	months    string
	noWeather bool
	asJSON    bool
	pngOut    string
	pdfOut    string
	xlsxOut   string
}

// openStore is replaced in tests
var openStore = func(dc config.DatasetData) (flights.Store, error) {
	return flights.NewStore(dc, log.Named("flights"))
}

func main() {
	var opts options
	flag.StringVar(&opts.cfgFile, "config", "", "Optional YAML configuration file for dataset and weather settings")
	flag.StringVar(&opts.dbFile, "db", "", "SQLite flight dataset; overrides the configured dataset paths")
	flag.StringVar(&opts.origin, "origin", "", "Origin airport code (required)")
	flag.StringVar(&opts.dest, "dest", "", "Destination airport code (required)")
	flag.StringVar(&opts.months, "months", "3", "Lookback horizon: 1, 3, 6, 12, 24, 96 or a label such as 1Y or MAX")
	flag.BoolVar(&opts.noWeather, "no-weather", false, "Skip the METAR lookups")
	flag.BoolVar(&opts.asJSON, "json", false, "Print the full result as JSON")
	flag.StringVar(&opts.pngOut, "png", "", "Write the route diagram to this PNG file")
	flag.StringVar(&opts.pdfOut, "pdf", "", "Write the route diagram to this PDF file")
	flag.StringVar(&opts.xlsxOut, "xlsx", "", "Write a spreadsheet report to this file")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	err := run(context.Background(), opts, os.Stdout)
	log.Sync()
	if err == nil {
		return
	}

	var ve *analysis.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintln(os.Stderr, ve.Message)
		os.Exit(2)
	}
	log.Errorf("%v", err)
	os.Exit(1)
}

// run performs one analysis and writes its output. The store is closed on every path.
func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := loadConfig(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.dbFile != "" {
		cfg.Dataset.Backend = config.DatasetBackendSQLite
		cfg.Dataset.Paths = []string{opts.dbFile}
	}

	h, err := horizon.ParseString(opts.months)
	if err != nil {
		return err
	}

	var weather metar.Lookup = metar.Disabled{}
	if !opts.noWeather && cfg.Weather.IsEnabled() {
		timeout, err := cfg.Weather.TimeoutDuration()
		if err != nil {
			return err
		}
		weather = metar.NewClient(cfg.Weather.APIEndpoint, timeout, log.Named("metar"))
	}

	store, err := openStore(cfg.Dataset)
	if err != nil {
		return err
	}
	defer store.Close()

	analyzer := analysis.NewAnalyzer(store, weather, log.GetSugaredLogger())
	res, err := analyzer.Analyze(ctx, analysis.Request{Origin: opts.origin, Destination: opts.dest, Horizon: h})
	if err != nil {
		return err
	}

	if err := writeExports(res, opts.pngOut, opts.pdfOut, opts.xlsxOut); err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}
	printResult(out, res)
	return nil
}

func loadConfig(path string) (*config.ConfigData, error) {
	if path == "" {
		cfg := &config.ConfigData{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return config.NewYAMLProvider(path).LoadConfig()
}

func writeExports(res *analysis.Result, pngPath, pdfPath, xlsxPath string) error {
	if pngPath != "" {
		png, err := res.Diagram.PNG()
		if err != nil {
			return fmt.Errorf("failed to render diagram: %w", err)
		}
		if err := os.WriteFile(pngPath, png, 0644); err != nil {
			return err
		}
		log.Infof("wrote %s", pngPath)
	}

	if pdfPath != "" {
		if err := writeFile(pdfPath, res.Diagram.WritePDF); err != nil {
			return fmt.Errorf("failed to write diagram PDF: %w", err)
		}
		log.Infof("wrote %s", pdfPath)
	}

	if xlsxPath != "" {
		err := writeFile(xlsxPath, func(w io.Writer) error { return report.WriteXLSX(w, res) })
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Infof("wrote %s", xlsxPath)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printResult(out io.Writer, res *analysis.Result) {
	fmt.Fprintf(out, "%s -> %s, %s (%s .. %s)\n\n", res.Origin, res.Destination, res.Horizon, res.Start, res.End)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	c := res.Counts
	fmt.Fprintf(tw, "Scheduled\t%d\n", c.Scheduled)
	fmt.Fprintf(tw, "On time\t%d\t%s\n", c.OnTime, pct(c.OnTime, c.Scheduled))
	fmt.Fprintf(tw, "Delayed\t%d\t%s\n", c.Delayed, pct(c.Delayed, c.Scheduled))
	fmt.Fprintf(tw, "Cancelled\t%d\t%s\n", c.Cancelled, pct(c.Cancelled, c.Scheduled))
	fmt.Fprintf(tw, "Diverted\t%d\t%s\n", c.Diverted, pct(c.Diverted, c.Scheduled))
	fmt.Fprintf(tw, "Weather delayed\t%d\t%s\n", c.WeatherDelayed, pct(c.WeatherDelayed, c.Scheduled))
	tw.Flush()

	if s := res.Stats; s.Count > 0 {
		fmt.Fprintf(out, "\nArrival delay: mean %.1f min, median %.1f, p90 %.1f, sd %.1f over %d flights\n",
			s.Mean, s.Median, s.P90, s.StdDev, s.Count)
	}

	fmt.Fprintln(out)
	for _, st := range []metar.Status{res.Weather.Origin, res.Weather.Destination} {
		line := fmt.Sprintf("%s weather: ", st.Airport)
		if st.Available() {
			line += fmt.Sprintf("%s (%s)", st.Category, st.Classification.Explanation)
		} else {
			line += strings.ReplaceAll(string(st.Code), "_", " ")
		}
		fmt.Fprintln(out, line)
	}
}

func pct(n, total int64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}

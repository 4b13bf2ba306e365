package restserver

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chrissnell/routedelay/internal/airports"
	"github.com/chrissnell/routedelay/internal/analysis"
	"github.com/chrissnell/routedelay/internal/flights"
	"github.com/chrissnell/routedelay/internal/horizon"
	"github.com/chrissnell/routedelay/internal/log"
	"github.com/chrissnell/routedelay/internal/report"
	"github.com/chrissnell/routedelay/pkg/responseformat"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// parseRequest reads origin, dest and months from the query string. months defaults to the
// session default and accepts either a month count or a preset label.
func parseRequest(req *http.Request) (analysis.Request, error) {
	q := req.URL.Query()

	r := analysis.Request{
		Origin:      q.Get("origin"),
		Destination: q.Get("dest"),
		Horizon:     analysis.DefaultHorizon,
	}

	if months := q.Get("months"); months != "" {
		h, err := horizon.ParseString(months)
		if err != nil {
			return r, err
		}
		r.Horizon = h
	}
	return r, nil
}

// writeError maps err onto a status code: rejected input is the client's fault, anything
// else is ours
func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, err error) {
	var ve *analysis.ValidationError

	switch {
	case errors.As(err, &ve):
		h.formatter.WriteError(w, req, http.StatusBadRequest, ve.Message)
	case errors.Is(err, horizon.ErrUnknownHorizon):
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
	case errors.Is(err, flights.ErrDatasetNotFound):
		log.Errorf("flight dataset unavailable: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "flight dataset unavailable")
	default:
		log.Errorf("route analysis failed: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "error running route analysis")
	}
}

// GetAirports lists the selectable airports
func (h *Handlers) GetAirports(w http.ResponseWriter, req *http.Request) {
	resp := AirportsResponse{Airports: airports.All()}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, resp, map[string]string{"Cache-Control": "max-age=3600"}); err != nil {
		log.Errorf("error encoding airports: %v", err)
	}
}

// GetHorizons lists the lookback presets
func (h *Handlers) GetHorizons(w http.ResponseWriter, req *http.Request) {
	resp := HorizonsResponse{
		Default:  analysis.DefaultHorizon.Months(),
		Horizons: horizon.Presets(),
	}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, resp, map[string]string{"Cache-Control": "max-age=3600"}); err != nil {
		log.Errorf("error encoding horizons: %v", err)
	}
}

// GetAnalysis runs a full route analysis
func (h *Handlers) GetAnalysis(w http.ResponseWriter, req *http.Request) {
	r, err := parseRequest(req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	res, err := h.controller.analyzer.Analyze(req.Context(), r)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	if err := h.formatter.WriteResponse(w, req, http.StatusOK, res, map[string]string{"Cache-Control": "no-store"}); err != nil {
		log.Errorf("error encoding analysis %s: %v", res.ID, err)
	}
}

// GetWeather returns the flight category at both airports without counting flights
func (h *Handlers) GetWeather(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	pair, err := h.controller.analyzer.Weather(req.Context(), q.Get("origin"), q.Get("dest"))
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	if err := h.formatter.WriteResponse(w, req, http.StatusOK, pair, map[string]string{"Cache-Control": "no-store"}); err != nil {
		log.Errorf("error encoding weather: %v", err)
	}
}

// GetDiagramPNG renders the route diagram as a PNG image
func (h *Handlers) GetDiagramPNG(w http.ResponseWriter, req *http.Request) {
	r, err := parseRequest(req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	d, err := h.controller.analyzer.Diagram(req.Context(), r)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	png, err := d.PNG()
	if err != nil {
		h.writeError(w, req, fmt.Errorf("error encoding diagram: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(png)
}

// GetDiagramPDF renders the route diagram as a one-page PDF
func (h *Handlers) GetDiagramPDF(w http.ResponseWriter, req *http.Request) {
	r, err := parseRequest(req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	d, err := h.controller.analyzer.Diagram(req.Context(), r)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	var buf bytes.Buffer
	if err := d.WritePDF(&buf); err != nil {
		h.writeError(w, req, fmt.Errorf("error encoding diagram: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", exportName(d.From.Label, d.To.Label, "pdf")))
	w.Write(buf.Bytes())
}

// GetReport runs a full analysis and returns it as a spreadsheet
func (h *Handlers) GetReport(w http.ResponseWriter, req *http.Request) {
	r, err := parseRequest(req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	res, err := h.controller.analyzer.Analyze(req.Context(), r)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, res); err != nil {
		h.writeError(w, req, fmt.Errorf("error writing report: %w", err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportName(res.Origin, res.Destination, "xlsx")))
	w.Write(buf.Bytes())
}

// GetRequestLog returns the most recent HTTP requests
func (h *Handlers) GetRequestLog(w http.ResponseWriter, req *http.Request) {
	entries := log.GetHTTPLogBuffer().GetEntries()
	resp := RequestLogResponse{Count: len(entries), Requests: entries}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, resp, map[string]string{"Cache-Control": "no-store"}); err != nil {
		log.Errorf("error encoding request log: %v", err)
	}
}

func exportName(origin, dest, ext string) string {
	return strings.ToLower(origin) + "-" + strings.ToLower(dest) + "." + ext
}

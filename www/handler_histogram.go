package www

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"
	"github.com/icodeforyou/histoplot-go/convert"
	"github.com/icodeforyou/histoplot-go/export"
	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/histogram"
	"github.com/icodeforyou/histoplot-go/types/maybe"
	"github.com/icodeforyou/histoplot-go/www/chartjs"
)

// DefaultSurface is used when a request does not name a surface.
const DefaultSurface = "histogram"

type ChartResponse struct {
	Surface string         `json:"surface"`
	Range   gradient.Range `json:"range"`
	Chart   chartjs.Chart  `json:"chart"`
}

func chartResponse(p *histogram.Plot) ChartResponse {
	return ChartResponse{Surface: p.SurfaceID(), Range: p.Range(), Chart: p.Chart()}
}

func surfaceParam(u *url.URL) string {
	if id := u.Query().Get("id"); id != "" {
		return id
	}
	return DefaultSurface
}

func histogramURL(surface string) string {
	return "/histogram?id=" + url.QueryEscape(surface)
}

// optionalFloat is None for an empty form field.
func optionalFloat(field, s string) (maybe.Maybe[float64], error) {
	if s == "" {
		return maybe.None[float64](), nil
	}
	f, err := convert.ParseFloat(s)
	if err != nil {
		return maybe.None[float64](), &histogram.ConfigurationError{Field: field, Index: -1, Reason: err.Error()}
	}
	return maybe.Some(f), nil
}

func NewHistogramPageHandler(logger *slog.Logger, ctrl *histogram.Controller, tm *TemplateManager, store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		surface := surfaceParam(r.URL)
		msg, err := PopMessage(store, w, r)
		if err != nil {
			logger.Warn("popping flash message", slog.Any("error", err))
		}

		data := struct {
			Surface  string
			Rendered bool
			Range    gradient.Range
			Original string
			Message  FlashMessage
		}{
			Surface: surface,
			Range:   ctrl.DefaultRange(),
			Message: msg,
		}
		if p, ok := ctrl.Registry().Get(surface); ok {
			snap := p.Snapshot()
			data.Rendered = true
			data.Range = snap.Range
			data.Original = gradient.FormatIntensities(snap.Intensities)
		}

		buf, err := tm.Execute("histogram.html", data)
		if err != nil {
			logger.Error("handling histogram page request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		buf.WriteTo(w)
	}
}

// NewRenderHandler draws a histogram. JSON bodies get the chart back, form
// posts from the pages are redirected to the histogram page.
func NewRenderHandler(logger *slog.Logger, ctrl *histogram.Controller, store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if isJSON(r) {
			var req histogram.RenderRequest
			if err := decodeJSON(w, r, &req); err != nil {
				writeError(logger, w, err)
				return
			}
			if req.Surface == "" {
				req.Surface = DefaultSurface
			}
			p, err := ctrl.Render(r.Context(), req)
			if err != nil {
				writeError(logger, w, err)
				return
			}
			writeJSON(logger, w, http.StatusOK, chartResponse(p))
			return
		}

		req, err := renderRequestFromForm(r)
		if err == nil {
			_, err = ctrl.Render(r.Context(), req)
		}
		redirectWithResult(logger, store, w, r, req.Surface, err, "Histogram rendered")
	}
}

func renderRequestFromForm(r *http.Request) (histogram.RenderRequest, error) {
	req := histogram.RenderRequest{Surface: DefaultSurface}
	if err := r.ParseForm(); err != nil {
		return req, &histogram.ConfigurationError{Field: "form", Index: -1, Reason: err.Error()}
	}
	if s := r.PostForm.Get("surface"); s != "" {
		req.Surface = s
	}
	req.Dataset = r.PostForm.Get("dataset")
	req.Title = r.PostForm.Get("title")
	if req.Dataset == "" {
		return req, &histogram.ConfigurationError{Field: "dataset", Index: -1, Reason: "missing"}
	}

	var err error
	if req.Min, err = optionalFloat("min", r.PostForm.Get("min")); err != nil {
		return req, err
	}
	if req.Max, err = optionalFloat("max", r.PostForm.Get("max")); err != nil {
		return req, err
	}
	return req, nil
}

// NewRecolorHandler changes the color range of a drawn histogram.
func NewRecolorHandler(logger *slog.Logger, ctrl *histogram.Controller, store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if isJSON(r) {
			var req histogram.RecolorRequest
			if err := decodeJSON(w, r, &req); err != nil {
				writeError(logger, w, err)
				return
			}
			if req.Surface == "" {
				req.Surface = DefaultSurface
			}
			p, err := ctrl.Recolor(r.Context(), req)
			if err != nil {
				writeError(logger, w, err)
				return
			}
			writeJSON(logger, w, http.StatusOK, chartResponse(p))
			return
		}

		req, err := recolorRequestFromForm(r)
		if err == nil {
			_, err = ctrl.Recolor(r.Context(), req)
		}
		redirectWithResult(logger, store, w, r, req.Surface, err, "")
	}
}

// recolorRequestFromForm reads the fields of the histogram page, both
// bounds are required there.
func recolorRequestFromForm(r *http.Request) (histogram.RecolorRequest, error) {
	req := histogram.RecolorRequest{Surface: DefaultSurface}
	if err := r.ParseForm(); err != nil {
		return req, &histogram.ConfigurationError{Field: "form", Index: -1, Reason: err.Error()}
	}
	if s := r.PostForm.Get("surface"); s != "" {
		req.Surface = s
	}
	req.Original = r.PostForm.Get("original")

	cr, err := gradient.ParseRange(r.PostForm.Get("min"), r.PostForm.Get("max"))
	if err != nil {
		return req, &histogram.ConfigurationError{Field: "range", Index: -1, Reason: err.Error()}
	}
	req.Min = maybe.Some(cr.Min)
	req.Max = maybe.Some(cr.Max)
	return req, nil
}

func redirectWithResult(logger *slog.Logger, store sessions.Store, w http.ResponseWriter, r *http.Request, surface string, err error, okText string) {
	var msgErr error
	switch {
	case err != nil:
		if errorStatus(err) == http.StatusInternalServerError {
			logger.Error("handling form post", slog.Any("error", err))
		}
		msgErr = SetMessage(store, w, r, err.Error(), MessageError)
	case okText != "":
		msgErr = SetMessage(store, w, r, okText, MessageInfo)
	}
	if msgErr != nil {
		logger.Warn("saving flash message", slog.Any("error", msgErr))
	}
	http.Redirect(w, r, histogramURL(surface), http.StatusSeeOther)
}

func NewChartHandler(logger *slog.Logger, registry *histogram.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		p, ok := registry.Get(surfaceParam(r.URL))
		if !ok {
			http.Error(w, histogram.ErrNotRendered.Error(), http.StatusNotFound)
			return
		}
		writeJSON(logger, w, http.StatusOK, chartResponse(p))
	}
}

func NewExportHandler(logger *slog.Logger, registry *histogram.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		surface := surfaceParam(r.URL)
		p, ok := registry.Get(surface)
		if !ok {
			http.Error(w, histogram.ErrNotRendered.Error(), http.StatusNotFound)
			return
		}

		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, p.Snapshot()); err != nil {
			logger.Error("exporting histogram", slog.String("surface", surface), slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", surface+".xlsx"))
		buf.WriteTo(w)
	}
}

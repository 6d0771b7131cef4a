package www

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/icodeforyou/histoplot-go/database"
	"github.com/icodeforyou/histoplot-go/histogram"
)

const maxBodyBytes = 4 << 20

func intOrDefault(u *url.URL, key string, defaultValue int) int {
	if v := u.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &histogram.ConfigurationError{Field: "body", Index: -1, Reason: err.Error()}
	}
	return nil
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing json response", slog.Any("error", err))
	}
}

// errorStatus maps the errors of the histogram layer to HTTP status codes.
func errorStatus(err error) int {
	var cfgErr *histogram.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest
	case errors.Is(err, histogram.ErrNotRendered):
		return http.StatusConflict
	case errors.Is(err, database.ErrDatasetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("handling request", slog.Any("error", err))
	} else {
		logger.Debug("rejecting request", slog.Int("status", status), slog.Any("error", err))
	}
	http.Error(w, err.Error(), status)
}

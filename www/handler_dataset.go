package www

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/icodeforyou/histoplot-go/database"
	"github.com/icodeforyou/histoplot-go/histogram"
)

type DatasetStore interface {
	SaveDataset(ctx context.Context, r database.DatasetRow) error
	GetDataset(ctx context.Context, name string) (database.DatasetRow, error)
	ListDatasets(ctx context.Context) ([]database.DatasetRow, error)
	DeleteDataset(ctx context.Context, name string) error
}

type Dataset struct {
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Values      []string  `json:"values"`
	Labels      []string  `json:"labels"`
	Intensities []float64 `json:"intensities"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

func datasetFromRow(r database.DatasetRow) Dataset {
	return Dataset{
		Name:        r.Name,
		Title:       r.Title,
		Values:      r.Values,
		Labels:      r.Labels,
		Intensities: r.Intensities,
		CreatedAt:   r.CreatedAt,
	}
}

// validate checks what a render would reject, so a stored dataset can
// always be drawn.
func (d Dataset) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &histogram.ConfigurationError{Field: "name", Index: -1, Reason: "missing"}
	}
	return histogram.Validate(histogram.Input{
		Values:      d.Values,
		Labels:      d.Labels,
		Intensities: d.Intensities,
	})
}

func NewDatasetHandler(logger *slog.Logger, db DatasetStore, tm *TemplateManager, store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodGet:
			if name := r.URL.Query().Get("name"); name != "" {
				row, err := db.GetDataset(ctx, name)
				if err != nil {
					writeError(logger, w, err)
					return
				}
				writeJSON(logger, w, http.StatusOK, datasetFromRow(row))
				return
			}

			rows, err := db.ListDatasets(ctx)
			if err != nil {
				writeError(logger, w, err)
				return
			}
			datasets := make([]Dataset, 0, len(rows))
			for _, row := range rows {
				datasets = append(datasets, datasetFromRow(row))
			}

			if strings.Contains(r.Header.Get("Accept"), "application/json") {
				writeJSON(logger, w, http.StatusOK, datasets)
				return
			}

			msg, err := PopMessage(store, w, r)
			if err != nil {
				logger.Warn("popping flash message", slog.Any("error", err))
			}
			data := struct {
				Surface  string
				Datasets []Dataset
				Message  FlashMessage
			}{
				Surface:  surfaceParam(r.URL),
				Datasets: datasets,
				Message:  msg,
			}
			buf, err := tm.Execute("datasets.html", data)
			if err != nil {
				logger.Error("handling datasets request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			buf.WriteTo(w)

		case http.MethodPost:
			var d Dataset
			if err := decodeJSON(w, r, &d); err != nil {
				writeError(logger, w, err)
				return
			}
			if err := d.validate(); err != nil {
				writeError(logger, w, err)
				return
			}
			row := database.DatasetRow{
				Name:        d.Name,
				Title:       d.Title,
				Values:      d.Values,
				Labels:      d.Labels,
				Intensities: d.Intensities,
			}
			if err := db.SaveDataset(ctx, row); err != nil {
				writeError(logger, w, err)
				return
			}
			logger.Info("dataset saved", slog.String("name", d.Name), slog.Int("bars", len(d.Values)))
			w.WriteHeader(http.StatusCreated)

		case http.MethodDelete:
			name := r.URL.Query().Get("name")
			if name == "" {
				http.Error(w, "missing name", http.StatusBadRequest)
				return
			}
			if err := db.DeleteDataset(ctx, name); err != nil {
				writeError(logger, w, err)
				return
			}
			logger.Info("dataset deleted", slog.String("name", name))
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

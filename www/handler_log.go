package www

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/icodeforyou/histoplot-go/database"
	"github.com/icodeforyou/histoplot-go/logging"
)

type LogReader interface {
	GetLogEntries(ctx context.Context, minLvl slog.Level, page, pageSize int) ([]database.LogEntryRow, error)
}

// NewLogHandler serves the log page, and with a "page" parameter the rows
// of that page that the log page loads as you scroll.
func NewLogHandler(logger *slog.Logger, db LogReader, tm *TemplateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		level := r.URL.Query().Get("level")
		minLevel := slog.LevelDebug
		if level != "" {
			minLevel = logging.LevelFromString(&level)
		}

		name, data := "log.html", any(struct{ Level string }{Level: level})
		if page := intOrDefault(r.URL, "page", 0); page > 0 {
			pageSize := intOrDefault(r.URL, "pageSize", 25)
			if pageSize < 1 {
				pageSize = 25
			}

			e, err := db.GetLogEntries(r.Context(), minLevel, page, pageSize)
			if err != nil {
				logger.Error("handling log request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			name, data = "log_entries.html", struct {
				Page     int
				PageSize int
				Level    string
				More     bool
				Entries  []database.LogEntryRow
			}{
				Page:     page + 1,
				PageSize: pageSize,
				Level:    level,
				More:     len(e) == pageSize,
				Entries:  e,
			}
		}

		buf, err := tm.Execute(name, data)
		if err != nil {
			logger.Error("handling log request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		buf.WriteTo(w)
	}
}

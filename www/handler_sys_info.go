package www

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/icodeforyou/histoplot-go/histogram"
)

type SysInfo struct {
	Version   string
	GoVersion string
	StartedAt time.Time
}

func NewSysInfoHandler(logger *slog.Logger, tm *TemplateManager, sysInfo SysInfo, registry *histogram.Registry, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if sysInfo.GoVersion == "" {
			sysInfo.GoVersion = runtime.Version()
		}
		data := struct {
			SysInfo
			Uptime   time.Duration
			Surfaces []string
			Clients  int
		}{
			SysInfo:  sysInfo,
			Uptime:   time.Since(sysInfo.StartedAt).Round(time.Second),
			Surfaces: registry.Surfaces(),
			Clients:  hub.ClientCount(),
		}

		buf, err := tm.Execute("sys_info.html", data)
		if err != nil {
			logger.Error("handling sys info request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		buf.WriteTo(w)
	}
}

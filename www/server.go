package www

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/icodeforyou/histoplot-go/config"
	"github.com/icodeforyou/histoplot-go/histogram"
	"github.com/icodeforyou/histoplot-go/metrics"
)

type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	hub    *Hub
	tm     *TemplateManager
	store  sessions.Store
	mux    *http.ServeMux
}

// Store is the database as seen by the web pages.
type Store interface {
	DatasetStore
	LogReader
}

//go:embed static
var embeddedStaticDir embed.FS

func NewServer(logger *slog.Logger, cfg config.AppConfigApi, db Store, ctrl *histogram.Controller, hub *Hub, sysInfo SysInfo) (*Server, error) {
	tm, err := NewTemplateManager(logger, cfg.WwwDir)
	if err != nil {
		return nil, fmt.Errorf("template manager initialization: %w", err)
	}

	key := []byte(cfg.SessionKey)
	if len(key) == 0 {
		// Sessions only carry flash messages, losing them on restart is fine.
		logger.Warn("no session key configured, using a random one")
		key = []byte(uuid.NewString() + uuid.NewString())
	}

	s := &Server{
		logger: logger,
		config: cfg,
		hub:    hub,
		tm:     tm,
		store:  NewSessionStore(key),
		mux:    http.NewServeMux(),
	}

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	s.mux.Handle("/", staticFilesHandler(cfg.WwwDir))

	s.mux.Handle("/histogram", logReqMW(NewHistogramPageHandler(
		logger.With(slog.String("handler", "histogram")),
		ctrl,
		tm,
		s.store)))

	s.mux.Handle("/histogram/render", logReqMW(NewRenderHandler(
		logger.With(slog.String("handler", "render")),
		ctrl,
		s.store)))

	s.mux.Handle("/histogram/recolor", logReqMW(NewRecolorHandler(
		logger.With(slog.String("handler", "recolor")),
		ctrl,
		s.store)))

	s.mux.Handle("/histogram/chart", logReqMW(NewChartHandler(
		logger.With(slog.String("handler", "chart")),
		ctrl.Registry())))

	s.mux.Handle("/histogram/export", logReqMW(NewExportHandler(
		logger.With(slog.String("handler", "export")),
		ctrl.Registry())))

	s.mux.Handle("/datasets", logReqMW(NewDatasetHandler(
		logger.With(slog.String("handler", "datasets")),
		db,
		tm,
		s.store)))

	s.mux.Handle("/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")),
		db,
		tm)))

	s.mux.Handle("/sys_info", logReqMW(NewSysInfoHandler(
		logger.With(slog.String("handler", "sys_info")),
		tm,
		sysInfo,
		ctrl.Registry(),
		hub)))

	s.mux.Handle("/metrics", metrics.Handler())

	s.mux.Handle("/ws", NewWebSocketHandler(logger.With(slog.String("handler", "ws")), hub))

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is done and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting server...", "address", s.config.Address, "port", s.config.Port)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.Run(ctx)
	defer s.tm.Close()

	srvErrors := make(chan error, 1)
	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	}
}

func staticFilesHandler(extDir *string) http.Handler {
	if extDir != nil && *extDir != "" {
		staticDir := path.Join(*extDir, "static")
		if _, err := os.Stat(staticDir); err == nil {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		log.Panic(err)
	}
	return http.FileServer(http.FS(fsys))
}

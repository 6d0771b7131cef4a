package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/icodeforyou/histoplot-go/config"
	"github.com/icodeforyou/histoplot-go/database"
	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/histogram"
	"github.com/icodeforyou/histoplot-go/logging"
	"github.com/icodeforyou/histoplot-go/mqttfeed"
	"github.com/icodeforyou/histoplot-go/task"
	"github.com/icodeforyou/histoplot-go/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("histoplot is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	handlers := []slog.Handler{
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat()),
	}
	if cnfg.Logging.File != nil && *cnfg.Logging.File != "" {
		fileHandler, closer := logging.NewFileHandler(
			*cnfg.Logging.File,
			cnfg.Logging.GetFileMaxSizeMb(),
			cnfg.Logging.GetFileMaxBackups(),
			cnfg.Logging.GetConsoleLevel())
		defer closer.Close()
		handlers = append(handlers, fileHandler)
	}

	logger := slog.New(logging.NewMultiHandler(handlers...))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	palette, err := cnfg.Gradient.GetPalette()
	if err != nil {
		panic(fmt.Sprintf("failed to load palette: %v", err))
	}
	mapper := gradient.NewMapper(palette)

	hub := www.NewHub(logger.With("module", "ws"))
	registry := histogram.NewRegistry(logger.With("module", "histogram"), www.NewHubDrawer(hub), mapper)
	ctrl := histogram.NewController(registry, db, cnfg.Gradient.GetRange())

	if !cnfg.Mqtt.Enabled() {
		logger.Info("no MQTT host configured, skipping MQTT feed")
	} else if isDevMode() {
		logger.Info("dev mode, skipping MQTT connection")
	} else {
		feed := mqttfeed.New(logger.With("module", "mqttfeed"), cnfg.Mqtt, ctrl)
		if err := feed.Connect(); err != nil {
			panic(fmt.Sprintf("MQTT connection error: %v", err))
		}
		defer feed.Disconnect()
	}

	tasks := task.NewTasks(logger.With("module", "tasks"), db, cnfg)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		if err := tasks.Run(); err != nil {
			panic(err.Error())
		}
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server, err := www.NewServer(
		logger.With("module", "www"),
		cnfg.Api,
		db,
		ctrl,
		hub,
		www.SysInfo{Version: Version, StartedAt: time.Now()})
	if err != nil {
		panic(fmt.Sprintf("failed to create server: %v", err))
	}

	if err := server.Run(ctx); err != nil {
		exitWithError(logger, err)
	}
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}

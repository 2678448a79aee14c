package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"stationgroups.onebusaway.org/internal/app"
	"stationgroups.onebusaway.org/internal/config"
	"stationgroups.onebusaway.org/internal/report"
)

// Declare a string containing the application version number. It is
// overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	var (
		port            = flag.Int("port", 4000, "API server port")
		env             = flag.String("env", "development", "Environment (development|staging|production)")
		configFile      = flag.String("config-file", "", "Path to a local JSON configuration file")
		configURL       = flag.String("config-url", "", "URL to a remote JSON configuration file")
		thresholdKm     = flag.Float64("threshold-km", 0, "Maximum distance in km between any two stations of a group (0 uses the config file or 25)")
		outputPath      = flag.String("out", "", "Path the built artifact is written to and warm-started from")
		refreshInterval = flag.Duration("refresh-interval", 15*time.Minute, "How often station sources are checked for changes")
	)
	flag.Parse()

	configAuthUser := os.Getenv("CONFIG_AUTH_USER")
	configAuthPass := os.Getenv("CONFIG_AUTH_PASS")

	if err := config.ValidateConfigFlags(configFile, configURL); err != nil {
		fmt.Println("Error:", err)
		flag.Usage()
		os.Exit(1)
	}

	report.SetupSentry(*env, version)
	defer report.FlushSentry()
	report.ConfigureScope(*env, version)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := app.NewPooledClient()

	var (
		doc *config.Document
		err error
	)
	if *configFile != "" {
		doc, err = config.LoadConfigFromFile(*configFile)
	} else {
		doc, err = config.LoadConfigFromURL(ctx, client, *configURL, configAuthUser, configAuthPass)
	}
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfg := config.NewConfig(*port, *env, nil)
	cfg.Apply(doc)
	cfg.ThresholdKm = *thresholdKm
	cfg.OutputPath = *outputPath
	cfg.RefreshInterval = *refreshInterval

	application := app.New(cfg, logger, client, version)

	if cfg.OutputPath != "" {
		if err := application.WarmStart(cfg.OutputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Ignoring persisted artifact", "path", cfg.OutputPath, "error", err)
		}
	}

	if _, err := application.Rebuild(ctx); err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Level: sentry.LevelError,
		})
		logger.Error("Initial build failed, will retry on refresh", "error", err)
	}

	application.StartRefresh(ctx, cfg.RefreshInterval)

	// If a remote URL is specified, refresh the configuration every minute
	if *configURL != "" {
		go application.ConfigService.RefreshConfig(ctx, *configURL, configAuthUser, configAuthPass, time.Minute)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      application.Routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("server stopped")
		return
	}
	report.ReportError(err, sentry.LevelFatal)
	report.FlushSentry()
	logger.Error(err.Error())
	os.Exit(1)
}

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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bihua-university/countries/internal/base"
	"github.com/bihua-university/countries/internal/country"
	"github.com/bihua-university/countries/internal/semver"
	"github.com/bihua-university/countries/internal/store"
	"github.com/bihua-university/countries/internal/task"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	cfg, err := base.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := base.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg base.Config, logger *slog.Logger) error {
	minVersion, err := semver.Parse(cfg.MinClientVersion)
	if err != nil {
		return fmt.Errorf("client.min_version: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := base.NewMetrics(reg)

	var (
		countries country.Store = country.NewMemoryStore()
		tasks     task.Store    = task.NewMemoryStore()
	)
	if cfg.DSN != "" {
		db, err := store.Open(cfg.DSN, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		countries, tasks = db.Countries(), db.Tasks()
	} else {
		logger.Warn("db.dsn is empty, countries and tasks are kept in memory")
	}

	gateway := country.NewGateway(countries, country.NewUpstream(cfg.UpstreamBase, cfg.UpstreamTimeout), country.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger,
		Observer:  metrics,
	})
	registry := task.NewRegistry(tasks, logger)
	scheduler := task.NewScheduler(registry,
		task.WithWorkers(cfg.Workers),
		task.WithLogger(logger),
		task.WithObserver(metrics),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	scheduler.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	srv := &Server{
		gateway:    gateway,
		registry:   registry,
		scheduler:  scheduler,
		logger:     logger,
		minVersion: minVersion,
		metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		scheduler.Close()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	// queued comparisons still finish
	scheduler.Close()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}

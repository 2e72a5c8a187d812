// Package main is the entry point for the weekgrid server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/api"
	"github.com/weekgrid/backend/internal/calendar"
	"github.com/weekgrid/backend/internal/config"
	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/logging"
	"github.com/weekgrid/backend/internal/schedule"
	"github.com/weekgrid/backend/internal/storage"
	"github.com/weekgrid/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "./weekgrid.yaml", "Path to the YAML config file")
	addr := flag.String("addr", "", "HTTP server address (overrides config)")
	staticDir := flag.String("static", "", "Directory for static frontend files (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *staticDir != "" {
		cfg.StaticDir = *staticDir
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Listen); err != nil {
			fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	defer logging.Install(logger)()

	// Allow overriding version via environment (e.g., injected by container build/runtime)
	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	logger.Info("starting weekgrid",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int("start_hour", cfg.Grid.StartHour),
		zap.Int("days", cfg.Grid.Days),
	)

	// Initialize the in-memory journal database
	db, err := storage.NewDB("weekgrid")
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := storage.RunMigrations(db); err != nil {
		logger.Fatal("running migrations", zap.Error(err))
	}
	logger.Info("database migrations complete")

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	mapper := grid.NewMapper(cfg.Grid.PixelsPerHour, cfg.Grid.StartHour, cfg.Grid.Days)
	broadcaster := websocket.NewEventBroadcaster(hub, mapper)
	journal := storage.NewJournalRepository(db)

	store := schedule.NewStore(cfg.SeedEvents)
	api.Observe(store, journal, broadcaster)

	// Start scheduler
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	scheduler := calendar.NewScheduler(journal, broadcaster, cfg.Journal.Keep, cfg.Journal.TrimCron)
	if err := scheduler.Start(ctx); err != nil {
		logger.Warn("scheduler not started", zap.Error(err))
	}

	router := api.NewRouter(api.Services{
		DB:          db,
		Hub:         hub,
		Store:       store,
		Mapper:      mapper,
		Broadcaster: broadcaster,
		Journal:     journal,
		Exporter:    calendar.NewExporter("-//weekgrid//" + version + "//EN"),
		StaticDir:   cfg.StaticDir,
		Version:     version,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Listen))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	scheduler.Stop()
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + host + "/api/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/jovemegidio/Zyntra-sub004/internal/api"
	"github.com/jovemegidio/Zyntra-sub004/internal/cache"
	"github.com/jovemegidio/Zyntra-sub004/internal/config"
	"github.com/jovemegidio/Zyntra-sub004/internal/database"
	"github.com/jovemegidio/Zyntra-sub004/internal/directory"
	"github.com/jovemegidio/Zyntra-sub004/internal/middleware"
	"github.com/jovemegidio/Zyntra-sub004/internal/portal"
	"github.com/jovemegidio/Zyntra-sub004/internal/report"
	"github.com/jovemegidio/Zyntra-sub004/internal/service"
)

const version = "1.0.0"

// Application holds the application state
type Application struct {
	Config  *config.Config
	Scraper *service.Scraper
	Results *cache.ResultCache
	Router  *mux.Router
}

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	log.Printf("CDR Scraper Service v%s", version)
	log.Printf("Loading configuration from: %s", *configFile)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.PortalConfigured() {
		log.Printf("Portal credentials missing; service starts degraded (configured=false)")
	}

	// Resolve the ramal directory
	dir, cleanup, err := buildDirectory(cfg)
	if err != nil {
		log.Fatalf("Failed to build directory: %v", err)
	}
	defer cleanup()
	log.Printf("Directory loaded with %d ramais (source=%s)", dir.Len(), cfg.Directory.Source)

	// Session manager owns the single headless browser
	sessions := portal.NewManager(cfg, portal.NewRodFactory(cfg))

	// Fetcher → result cache → facade
	fetcher := report.NewFetcher(cfg, sessions, dir.Resolve)
	results := cache.New(fetcher, &cache.Config{
		TTL:             cfg.Cache.TTL,
		MaxEntries:      cfg.Cache.MaxEntries,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	scraper := service.New(cfg, sessions, results, dir)

	app := &Application{
		Config:  cfg,
		Scraper: scraper,
		Results: results,
		Router:  mux.NewRouter(),
	}

	log.Println("Setting up routes...")
	app.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("Starting background workers...")
	go results.Start(ctx)

	go func() {
		log.Printf("CDR Scraper Service listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	cancel()
	results.Stop()
	scraper.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited cleanly")
}

// buildDirectory loads the ramal directory from the configured source.
func buildDirectory(cfg *config.Config) (*directory.Directory, func(), error) {
	if cfg.Directory.Source == "database" {
		if !cfg.DatabaseConfigured() {
			return nil, nil, fmt.Errorf("directory source is database but no database host is set")
		}

		db, err := database.New(&database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		dir, err := directory.NewFromDatabase(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return dir, func() { _ = db.Close() }, nil
	}

	return directory.NewStatic(cfg.Directory.Extensions), func() {}, nil
}

// setupRoutes configures HTTP routes
func (app *Application) setupRoutes() {
	healthHandler := api.NewHealthHandler(app.Scraper, app.Results, version)
	scraperHandler := api.NewScraperHandler(app.Scraper)

	authConfig := &middleware.AuthConfig{
		APIKeys: app.Config.Auth.APIKeys,
	}

	app.Router.Use(middleware.Recovery)
	app.Router.Use(middleware.Logging)

	// Public routes (no auth required)
	app.Router.HandleFunc("/health", healthHandler.Check).Methods("GET")
	app.Router.HandleFunc("/health/stats", healthHandler.Stats).Methods("GET")

	// Scraper API endpoints (API Key Auth)
	apiRouter := app.Router.PathPrefix("/api/v1/cdr").Subrouter()
	apiRouter.Use(middleware.APIKeyAuth(authConfig))

	apiRouter.HandleFunc("/status", scraperHandler.Status).Methods("GET")
	apiRouter.HandleFunc("/origins", scraperHandler.Origins).Methods("GET")
	apiRouter.HandleFunc("/records", scraperHandler.Records).Methods("GET")
	apiRouter.HandleFunc("/summary", scraperHandler.Summary).Methods("GET")
}

package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"center-onboard/internal/config"
	"center-onboard/internal/enrich"
	"center-onboard/internal/session"
	"center-onboard/internal/storage"
	"center-onboard/internal/store"
)

// App encapsulates application dependencies
type App struct {
	router   *gin.Engine
	logger   *slog.Logger
	cfg      *config.Config
	sessions *session.Manager
	images   *storage.ImageStore
	enricher *enrich.Enricher
	centers  store.Centers
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Set Gin mode from configuration
	gin.SetMode(cfg.Server.GinMode)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())

	images, err := storage.NewImageStore(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}

	// Select the submission collaborator. Without a DSN, submissions
	// live in process memory only.
	var centers store.Centers
	if cfg.DB.DSN != "" {
		gs, err := store.NewGormStore(cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		centers = gs
		logger.Info("using postgres center store")
	} else {
		centers = store.NewMemoryStore()
		logger.Info("no database configured, using in-memory center store")
	}

	app := &App{
		router:   router,
		logger:   logger,
		cfg:      cfg,
		sessions: session.NewManager(images, cfg.SessionTTL()),
		images:   images,
		enricher: enrich.New(logger, cfg.Providers.GeolocateAPIKey, cfg.Providers.NominatimUserAgent),
		centers:  centers,
	}

	// Register routes
	app.registerRoutes()

	return app, nil
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	return app.router.Run(addr)
}

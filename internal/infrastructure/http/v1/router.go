// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"ambar/internal/infrastructure/http/v1/handlers"
	"ambar/internal/infrastructure/http/v1/middleware"
	"ambar/internal/infrastructure/remote/gist"
	"ambar/internal/store"
	"ambar/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Store owns the record collections.
	Store *store.Store

	// Snapshots is the durability boundary (for readiness checks).
	Snapshots store.SnapshotStore

	// Gist is the remote sync client.
	Gist *gist.Client

	// RemoteToken is the bearer credential for remote push.
	RemoteToken string

	// Logger for request logging.
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Snapshots)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// API v1
	base := handlers.NewBaseHandler()
	api := router.Group("/api/v1")
	{
		handlers.NewProductHandler(base, cfg.Store).RegisterRoutes(api.Group("/products"))
		handlers.NewInvoiceHandler(base, cfg.Store).RegisterRoutes(api.Group("/invoices"))
		handlers.NewInventoryHandler(base, cfg.Store).RegisterRoutes(api.Group("/inventory"))
		handlers.NewTransferHandler(base, cfg.Store).RegisterRoutes(api)

		syncHandler := handlers.NewSyncHandler(base, cfg.Store, cfg.Gist, cfg.RemoteToken)
		syncHandler.RegisterRoutes(api.Group("/sync"), api.Group("/settings"))
	}

	return router
}

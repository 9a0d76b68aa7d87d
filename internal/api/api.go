// Package api exposes the ingestion service over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/datastore"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/ingest"
	"github.com/wildtrack/wildtrack-go/internal/logging"
	"github.com/wildtrack/wildtrack-go/internal/observability"
	"github.com/wildtrack/wildtrack-go/internal/validate"
)

// Server wires the HTTP surface over the pipeline and store.
type Server struct {
	Echo *echo.Echo

	settings  *conf.Settings
	atlas     *geo.Atlas
	validator *validate.Validator
	pipeline  *ingest.Pipeline
	store     datastore.Interface
	metrics   *observability.Metrics
	log       *slog.Logger
}

// New builds the server and registers all routes.
func New(settings *conf.Settings, atlas *geo.Atlas, validator *validate.Validator, pipeline *ingest.Pipeline, store datastore.Interface, metrics *observability.Metrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		Echo:      e,
		settings:  settings,
		atlas:     atlas,
		validator: validator,
		pipeline:  pipeline,
		store:     store,
		metrics:   metrics,
		log:       logging.ForService("api"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.Echo

	e.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	v1 := e.Group("/api/v1")
	v1.POST("/sightings", s.handleSubmitSighting)
	v1.GET("/sightings", s.handleListSightings)
	v1.GET("/sightings/:id", s.handleGetSighting)
	v1.POST("/validate", s.handleValidate)
	v1.GET("/regions", s.handleListRegions)
	v1.GET("/regions/:code", s.handleGetRegion)
	v1.GET("/report", s.handleReport)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	return s.Echo.Start(":" + s.settings.WebServer.Port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	status := map[string]any{
		"status":  "ok",
		"regions": s.atlas.RegionCount(),
	}
	if !s.atlas.Loaded() {
		status["status"] = "degraded"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}

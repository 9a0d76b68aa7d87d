// Package app assembles the application from its parts: boundary data,
// store, validator, pipeline and connectors, built from settings.
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/datastore"
	"github.com/wildtrack/wildtrack-go/internal/extract"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/ingest"
	"github.com/wildtrack/wildtrack-go/internal/observability"
	"github.com/wildtrack/wildtrack-go/internal/sources"
	"github.com/wildtrack/wildtrack-go/internal/validate"
)

// App holds the wired components for one process lifetime.
type App struct {
	Settings  *conf.Settings
	Atlas     *geo.Atlas
	Validator *validate.Validator
	Store     datastore.Interface
	Metrics   *observability.Metrics
	Pipeline  *ingest.Pipeline
}

// Bootstrap loads zone boundaries, opens the store and builds the
// pipeline. Geometry and storage failures abort startup; running with
// partial region data is worse than not starting.
func Bootstrap(settings *conf.Settings) (*App, error) {
	regions, err := geo.LoadGeoJSONFile(settings.Region.BoundaryPath)
	if err != nil {
		return nil, fmt.Errorf("loading zone boundaries: %w", err)
	}

	atlas := geo.NewAtlas()
	if err := atlas.Load(regions, settings.Region.GridCell); err != nil {
		return nil, fmt.Errorf("indexing zone boundaries: %w", err)
	}

	store, err := datastore.New(settings)
	if err != nil {
		return nil, err
	}
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	validator := validate.New(atlas, settings.Region.CanonicalCode, settings.Region.CanonicalName)
	metrics := observability.NewMetrics()

	pipeline, err := ingest.NewPipeline(atlas, validator, store, metrics)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		Settings:  settings,
		Atlas:     atlas,
		Validator: validator,
		Store:     store,
		Metrics:   metrics,
		Pipeline:  pipeline,
	}, nil
}

// BuildRunner assembles the ingestion runner over the configured sources.
func (a *App) BuildRunner() *ingest.Runner {
	client := &http.Client{Timeout: 30 * time.Second}
	var srcs []sources.Source
	for _, url := range a.Settings.Sources.Feeds {
		srcs = append(srcs, sources.NewFeedSource(url, client))
	}
	for _, url := range a.Settings.Sources.Forums {
		srcs = append(srcs, sources.NewForumSource(url, client))
	}

	extractor := extract.NewRemoteExtractor(a.Settings.Extractor.Endpoint, a.Settings.Extractor.Timeout)
	return ingest.NewRunner(srcs, extractor, a.Pipeline, a.Settings.Ingest.Workers, a.Settings.Ingest.CacheTTL, a.Metrics)
}

// Close releases held resources.
func (a *App) Close() error {
	return a.Store.Close()
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildtrack/wildtrack-go/internal/datastore"
	"github.com/wildtrack/wildtrack-go/internal/errors"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/ingest"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
)

// submitRequest is a manual sighting submission.
type submitRequest struct {
	Species       string   `json:"species"`
	Text          string   `json:"text"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Zone          string   `json:"zone"`
	LocationLabel string   `json:"location_label"`
	ObservedAt    string   `json:"observed_at"` // RFC 3339, optional
	SourceURL     string   `json:"source_url"`
}

func (r *submitRequest) toCandidate() (*sighting.Candidate, error) {
	if r.Species == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "species is required")
	}
	c := &sighting.Candidate{
		Species:       r.Species,
		RawText:       r.Text,
		ClaimedZone:   r.Zone,
		SourceKind:    sighting.SourceManual,
		ObservedAt:    time.Now().UTC(),
		LocationLabel: r.LocationLabel,
		SourceURL:     r.SourceURL,
	}
	if r.ObservedAt != "" {
		ts, err := time.Parse(time.RFC3339, r.ObservedAt)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "observed_at must be RFC 3339")
		}
		c.ObservedAt = ts
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "latitude and longitude must be supplied together")
	}
	if r.Latitude != nil {
		c.Point = &geo.Point{Lat: *r.Latitude, Lon: *r.Longitude}
	}
	return c, nil
}

func (s *Server) handleSubmitSighting(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	candidate, err := req.toCandidate()
	if err != nil {
		return err
	}

	outcome, err := s.pipeline.Process(candidate)
	if err != nil {
		return s.mapPipelineError(err)
	}

	status := http.StatusCreated
	if outcome != ingest.OutcomeStored && outcome != ingest.OutcomeReview {
		status = http.StatusOK
	}
	return c.JSON(status, map[string]any{"outcome": outcome})
}

// validateRequest checks a location claim without storing anything.
type validateRequest struct {
	Text      string   `json:"text"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Zone      string   `json:"zone"`
}

func (s *Server) handleValidate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	var point *geo.Point
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return echo.NewHTTPError(http.StatusBadRequest, "latitude and longitude must be supplied together")
	}
	if req.Latitude != nil {
		point = &geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	}

	verdict, err := s.validator.Validate(req.Text, point, req.Zone)
	if err != nil {
		return s.mapPipelineError(err)
	}
	return c.JSON(http.StatusOK, verdict)
}

func (s *Server) handleListSightings(c echo.Context) error {
	filter := datastore.SearchFilter{
		Species:    c.QueryParam("species"),
		ZoneCode:   c.QueryParam("zone"),
		SourceKind: c.QueryParam("source"),
		Date:       c.QueryParam("date"),
	}
	if v := c.QueryParam("review"); v != "" {
		review, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "review must be a boolean")
		}
		filter.NeedsReview = &review
	}
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	results, err := s.store.Search(filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":     len(results),
		"sightings": results,
	})
}

func (s *Server) handleGetSighting(c echo.Context) error {
	result, err := s.store.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "sighting not found")
	}
	return c.JSON(http.StatusOK, result)
}

type regionInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) handleListRegions(c echo.Context) error {
	regions := s.atlas.Regions()
	out := make([]regionInfo, 0, len(regions))
	for i := range regions {
		out = append(out, regionInfo{Code: regions[i].Code, Name: regions[i].Name})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"canonical": s.settings.Region.CanonicalName,
		"count":     len(out),
		"regions":   out,
	})
}

func (s *Server) handleGetRegion(c echo.Context) error {
	code := c.Param("code")
	region, ok := s.atlas.Region(code)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown zone code")
	}
	centroid := region.Centroid()
	return c.JSON(http.StatusOK, map[string]any{
		"code":     region.Code,
		"name":     region.Name,
		"centroid": centroid,
	})
}

func (s *Server) handleReport(c echo.Context) error {
	byRecommendation, err := s.store.CountByRecommendation()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report failed")
	}
	byZone, err := s.store.CountByZone()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"by_recommendation": byRecommendation,
		"by_zone":           byZone,
	})
}

// mapPipelineError translates core errors into HTTP responses: malformed
// coordinates are the caller's fault, missing region data is ours.
func (s *Server) mapPipelineError(err error) error {
	switch {
	case errors.Is(err, geo.ErrInvalidPoint):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, geo.ErrNotLoaded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "region data not loaded")
	default:
		s.log.Error("pipeline failure", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

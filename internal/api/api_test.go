package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/datastore"
	"github.com/wildtrack/wildtrack-go/internal/fingerprint"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/ingest"
	"github.com/wildtrack/wildtrack-go/internal/observability"
	"github.com/wildtrack/wildtrack-go/internal/validate"
)

type fakeStore struct {
	mu   sync.Mutex
	rows map[string]datastore.Sighting
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]datastore.Sighting)}
}

func (f *fakeStore) Open() error  { return nil }
func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) Save(s *datastore.Sighting) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.rows[s.Fingerprint]; dup {
		return false, nil
	}
	f.rows[s.Fingerprint] = *s
	return true, nil
}

func (f *fakeStore) Get(id string) (datastore.Sighting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return datastore.Sighting{}, echo404{}
}

type echo404 struct{}

func (echo404) Error() string { return "not found" }

func (f *fakeStore) GetByFingerprint(fp fingerprint.Fingerprint) (datastore.Sighting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[string(fp)], nil
}

func (f *fakeStore) AllFingerprints() ([]fingerprint.Fingerprint, error) { return nil, nil }

func (f *fakeStore) Recent(limit int) ([]datastore.Sighting, error) { return nil, nil }

func (f *fakeStore) Search(filter datastore.SearchFilter) ([]datastore.Sighting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []datastore.Sighting
	for _, s := range f.rows {
		if filter.Species != "" && s.Species != filter.Species {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) CountByRecommendation() (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, s := range f.rows {
		counts[s.Recommendation]++
	}
	return counts, nil
}

func (f *fakeStore) CountByZone() (map[string]int64, error) {
	return map[string]int64{}, nil
}

func square(lat, lon, side float64) geo.Ring {
	return geo.Ring{
		{Lat: lat, Lon: lon},
		{Lat: lat, Lon: lon + side},
		{Lat: lat + side, Lon: lon + side},
		{Lat: lat + side, Lon: lon},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	regions := []geo.Region{
		{Code: "20", Name: "Unit 20", Polygons: []geo.Polygon{{Outer: square(40, -106, 1)}}},
	}
	atlas := geo.NewAtlas()
	require.NoError(t, atlas.Load(regions, 0.5))
	validator := validate.New(atlas, "CO", "Colorado")

	store := newFakeStore()
	pipeline, err := ingest.NewPipeline(atlas, validator, store, observability.NewMetrics())
	require.NoError(t, err)

	settings := &conf.Settings{}
	settings.Region.CanonicalCode = "CO"
	settings.Region.CanonicalName = "Colorado"
	settings.WebServer.Port = "0"

	return New(settings, atlas, validator, pipeline, store, observability.NewMetrics())
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echoContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"regions":1`)
}

func TestValidateEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/validate",
		`{"text": "Saw 6 elk near Estes Park in Colorado", "latitude": 40.3775, "longitude": -105.5253, "zone": "20"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict validate.Verdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.True(t, verdict.Valid)
	assert.Equal(t, validate.RecommendAccept, verdict.Recommendation)
}

func TestValidateEndpointBadCoordinates(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/validate",
		`{"text": "elk", "latitude": 95.0, "longitude": 0.0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEndpointHalfCoordinate(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/validate",
		`{"text": "elk", "latitude": 40.0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitSighting(t *testing.T) {
	s := newTestServer(t)
	body := `{
		"species": "elk",
		"text": "Saw 6 elk near Estes Park in Colorado",
		"latitude": 40.3775, "longitude": -105.5253,
		"zone": "20",
		"location_label": "Estes Park",
		"observed_at": "2026-08-14T06:30:00Z"
	}`

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sightings", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outcome":"stored"`)

	// Byte-identical resubmission is absorbed, not an error.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/sightings", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outcome":"duplicate"`)
}

func TestSubmitSightingRequiresSpecies(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/sightings", `{"text": "no species"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegionEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/regions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Unit 20"`)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/regions/20", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/regions/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportEndpoint(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/v1/sightings",
		`{"species": "elk", "text": "elk in Colorado", "observed_at": "2026-08-14T06:30:00Z"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accept":1`)
}

package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBoundaries = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"code": "20", "name": "Unit 20"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-106, 40], [-105, 40], [-105, 41], [-106, 41], [-106, 40]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"id": 12},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[-106, 39], [-105, 39], [-105, 40], [-106, 40]]],
          [[[-104, 39], [-103, 39], [-103, 40], [-104, 40]]]
        ]
      }
    }
  ]
}`

func TestParseGeoJSON(t *testing.T) {
	regions, err := ParseGeoJSON([]byte(sampleBoundaries))
	require.NoError(t, err)
	require.Len(t, regions, 2)

	assert.Equal(t, "20", regions[0].Code)
	assert.Equal(t, "Unit 20", regions[0].Name)
	require.Len(t, regions[0].Polygons, 1)
	// Closing vertex dropped, coordinates flipped to lat/lon.
	require.Len(t, regions[0].Polygons[0].Outer, 4)
	assert.Equal(t, Point{Lat: 40, Lon: -106}, regions[0].Polygons[0].Outer[0])

	// Numeric id property, name falls back to the code.
	assert.Equal(t, "12", regions[1].Code)
	assert.Equal(t, "12", regions[1].Name)
	assert.Len(t, regions[1].Polygons, 2)
}

func TestParseGeoJSONLoadsIntoAtlas(t *testing.T) {
	regions, err := ParseGeoJSON([]byte(sampleBoundaries))
	require.NoError(t, err)

	atlas := NewAtlas()
	require.NoError(t, atlas.Load(regions, 0.5))

	code, ok, err := atlas.FindRegion(Point{Lat: 40.5, Lon: -105.5})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "20", code)

	code, ok, err = atlas.FindRegion(Point{Lat: 39.5, Lon: -103.5})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "12", code, "second part of a multipolygon zone")
}

func TestParseGeoJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"wrong top-level type", `{"type": "Feature"}`},
		{"missing code", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1]]]}}]}`},
		{"unsupported geometry", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"code":"1"},"geometry":{"type":"Point","coordinates":[0,0]}}]}`},
		{"empty polygon", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"code":"1"},"geometry":{"type":"Polygon","coordinates":[]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGeoJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

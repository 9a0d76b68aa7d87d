package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Minimal GeoJSON decoding for zone boundary files. Only FeatureCollections
// of Polygon and MultiPolygon features are accepted; that is what boundary
// exports from state wildlife agencies contain.

type geoJSONFile struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   geoJSONGeometry `json:"geometry"`
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadGeoJSONFile reads a boundary file and returns its regions.
func LoadGeoJSONFile(path string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading boundary file: %w", err)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON decodes a GeoJSON FeatureCollection into regions. Zone code
// and name are taken from the feature properties; features without a code
// are rejected because an unattributable zone cannot be claimed or stored.
func ParseGeoJSON(data []byte) ([]Region, error) {
	var file geoJSONFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing boundary file: %w", err)
	}
	if file.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unsupported GeoJSON type %q, want FeatureCollection", file.Type)
	}

	regions := make([]Region, 0, len(file.Features))
	for i := range file.Features {
		f := &file.Features[i]
		code := propertyString(f.Properties, "code", "id", "GMUID", "unit")
		if code == "" {
			return nil, fmt.Errorf("feature %d has no zone code property", i)
		}
		name := propertyString(f.Properties, "name", "label")
		if name == "" {
			name = code
		}

		polygons, err := decodeGeometry(&f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", code, err)
		}
		regions = append(regions, Region{Code: code, Name: name, Polygons: polygons})
	}
	return regions, nil
}

func decodeGeometry(g *geoJSONGeometry) ([]Polygon, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("decoding polygon coordinates: %w", err)
		}
		pg, err := toPolygon(rings)
		if err != nil {
			return nil, err
		}
		return []Polygon{pg}, nil
	case "MultiPolygon":
		var parts [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &parts); err != nil {
			return nil, fmt.Errorf("decoding multipolygon coordinates: %w", err)
		}
		polygons := make([]Polygon, 0, len(parts))
		for _, rings := range parts {
			pg, err := toPolygon(rings)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, pg)
		}
		return polygons, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

// toPolygon converts GeoJSON [lon, lat] ring coordinates. The first ring is
// the outer boundary, the rest are holes. A GeoJSON-style repeated closing
// vertex is dropped since rings close implicitly here.
func toPolygon(rings [][][]float64) (Polygon, error) {
	if len(rings) == 0 {
		return Polygon{}, fmt.Errorf("polygon has no rings")
	}
	out := Polygon{}
	for i, coords := range rings {
		ring := make(Ring, 0, len(coords))
		for _, c := range coords {
			if len(c) < 2 {
				return Polygon{}, fmt.Errorf("ring %d has a vertex with fewer than 2 coordinates", i)
			}
			ring = append(ring, Point{Lat: c[1], Lon: c[0]})
		}
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		if i == 0 {
			out.Outer = ring
		} else {
			out.Holes = append(out.Holes, ring)
		}
	}
	return out, nil
}

func propertyString(props map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := props[key]; ok {
			switch s := v.(type) {
			case string:
				return strings.TrimSpace(s)
			case float64:
				return strings.TrimSpace(fmt.Sprintf("%v", s))
			}
		}
	}
	return ""
}

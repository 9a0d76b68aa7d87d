// Package geo implements zone attribution over a fixed set of polygonal
// regions: point-in-region membership with a grid pre-filter, loaded once
// and queried concurrently.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for the query surface.
var (
	// ErrNotLoaded is returned when a query is issued before Load has completed.
	ErrNotLoaded = errors.New("region index not loaded")
	// ErrInvalidPoint is returned for coordinates outside the WGS-84 value range.
	ErrInvalidPoint = errors.New("invalid coordinates")
)

// LoadError describes malformed region geometry encountered at load time.
// It is fatal: the caller must abort initialization rather than run with
// partial boundary data.
type LoadError struct {
	RegionCode string
	Detail     string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading region %q: %s", e.RegionCode, e.Detail)
}

// Point is a WGS-84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point is within the WGS-84 coordinate range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return math.Abs(p.Lat) <= 90 && math.Abs(p.Lon) <= 180
}

// CheckPoint returns ErrInvalidPoint for out-of-range coordinates.
func CheckPoint(p Point) error {
	if !p.Valid() {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidPoint, p.Lat, p.Lon)
	}
	return nil
}

// Ring is a closed sequence of vertices. The closing edge from the last
// vertex back to the first is implicit.
type Ring []Point

// Polygon is a simple polygon: one outer ring minus any holes.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// Region is a named management zone. Geometry is immutable after load;
// multi-part zones carry one Polygon per part.
type Region struct {
	Code     string
	Name     string
	Polygons []Polygon
}

// bounds is an axis-aligned bounding box used by the lookup pre-filter.
type bounds struct {
	minLat, minLon, maxLat, maxLon float64
}

func (b *bounds) contains(p Point) bool {
	return p.Lat >= b.minLat && p.Lat <= b.maxLat && p.Lon >= b.minLon && p.Lon <= b.maxLon
}

func (b *bounds) extend(p Point) {
	b.minLat = math.Min(b.minLat, p.Lat)
	b.maxLat = math.Max(b.maxLat, p.Lat)
	b.minLon = math.Min(b.minLon, p.Lon)
	b.maxLon = math.Max(b.maxLon, p.Lon)
}

func regionBounds(r *Region) bounds {
	b := bounds{minLat: math.Inf(1), minLon: math.Inf(1), maxLat: math.Inf(-1), maxLon: math.Inf(-1)}
	for i := range r.Polygons {
		for _, p := range r.Polygons[i].Outer {
			b.extend(p)
		}
	}
	return b
}

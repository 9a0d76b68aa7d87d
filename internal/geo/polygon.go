package geo

import "math"

// onEdgeEpsilon bounds the cross-product magnitude below which a point is
// considered collinear with an edge. Degrees are small numbers, so this is
// tight enough to only capture genuine boundary contact.
const onEdgeEpsilon = 1e-12

// Contains reports whether the point lies inside the region, boundary
// included. Closed-region semantics avoid systematic false negatives for
// sightings reported right on administrative borders.
func (r *Region) Contains(p Point) bool {
	for i := range r.Polygons {
		if r.Polygons[i].contains(p) {
			return true
		}
	}
	return false
}

func (pg *Polygon) contains(p Point) bool {
	// Boundary contact on any ring, outer or hole, counts as inside.
	if pointOnRing(p, pg.Outer) {
		return true
	}
	for _, h := range pg.Holes {
		if pointOnRing(p, h) {
			return true
		}
	}
	if !pointInRing(p, pg.Outer) {
		return false
	}
	for _, h := range pg.Holes {
		if pointInRing(p, h) {
			return false
		}
	}
	return true
}

// pointInRing applies the even-odd rule: a ray cast eastward from p crosses
// the ring's edges an odd number of times iff p is strictly inside.
func pointInRing(p Point, ring Ring) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if p.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// pointOnRing reports whether p lies on one of the ring's edges.
func pointOnRing(p Point, ring Ring) bool {
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		if pointOnSegment(p, ring[j], ring[i]) {
			return true
		}
	}
	return false
}

// pointOnSegment reports whether p lies on the segment [a, b].
func pointOnSegment(p, a, b Point) bool {
	cross := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if math.Abs(cross) > onEdgeEpsilon {
		return false
	}
	return p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat) &&
		p.Lon >= math.Min(a.Lon, b.Lon) && p.Lon <= math.Max(a.Lon, b.Lon)
}

// Centroid returns the arithmetic mean of the region's outer-ring vertices.
// It is only used for coarse distance heuristics, not for geometry.
func (r *Region) Centroid() Point {
	var lat, lon float64
	var n int
	for i := range r.Polygons {
		for _, p := range r.Polygons[i].Outer {
			lat += p.Lat
			lon += p.Lon
			n++
		}
	}
	if n == 0 {
		return Point{}
	}
	return Point{Lat: lat / float64(n), Lon: lon / float64(n)}
}

// Distance returns an approximate distance in kilometers between two points
// using the equirectangular approximation, adequate at study-area scale.
func Distance(a, b Point) float64 {
	const earthRadiusKm = 6371.0
	latRad := (a.Lat + b.Lat) / 2 * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180 * math.Cos(latRad)
	return earthRadiusKm * math.Hypot(dLat, dLon)
}

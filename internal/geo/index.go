package geo

import (
	"math"
	"sort"
	"sync/atomic"
)

// index is one immutable snapshot of the loaded region set together with
// its acceleration structures. Queries never mutate it, so a snapshot can
// be shared by any number of readers without locking.
type index struct {
	regions []Region
	boxes   []bounds
	grid    map[[2]int][]int // grid cell -> indices into regions
	cell    float64
	byCode  map[string]int
}

// Atlas answers "which zone contains point P" over a region set loaded once
// at startup. Reload swaps the whole snapshot atomically so readers never
// observe a half-updated set.
type Atlas struct {
	current atomic.Pointer[index]
}

// NewAtlas returns an empty atlas. Queries fail with ErrNotLoaded until
// Load has completed.
func NewAtlas() *Atlas {
	return &Atlas{}
}

// Load validates the region geometry, builds the lookup structures and
// swaps them in as the active snapshot. cellDegrees sets the grid cell
// size of the bounding-box pre-filter.
func (a *Atlas) Load(regions []Region, cellDegrees float64) error {
	if cellDegrees <= 0 {
		cellDegrees = 0.5
	}
	idx, err := buildIndex(regions, cellDegrees)
	if err != nil {
		return err
	}
	a.current.Store(idx)
	return nil
}

// Loaded reports whether region data is available for queries.
func (a *Atlas) Loaded() bool {
	return a.current.Load() != nil
}

// RegionCount returns the number of loaded regions.
func (a *Atlas) RegionCount() int {
	idx := a.current.Load()
	if idx == nil {
		return 0
	}
	return len(idx.regions)
}

// Region returns the loaded region with the given code.
func (a *Atlas) Region(code string) (*Region, bool) {
	idx := a.current.Load()
	if idx == nil {
		return nil, false
	}
	i, ok := idx.byCode[code]
	if !ok {
		return nil, false
	}
	return &idx.regions[i], true
}

// Regions returns the loaded region set in code order. The slice is a
// copy, so callers cannot disturb the active snapshot.
func (a *Atlas) Regions() []Region {
	idx := a.current.Load()
	if idx == nil {
		return nil
	}
	out := make([]Region, len(idx.regions))
	copy(out, idx.regions)
	return out
}

// FindRegion returns the code of the zone containing the point, if any.
// Candidates whose bounding boxes cover the point are polygon-tested in
// code order and the first exact containment wins, so results are
// deterministic for a given loaded set.
func (a *Atlas) FindRegion(p Point) (string, bool, error) {
	idx := a.current.Load()
	if idx == nil {
		return "", false, ErrNotLoaded
	}
	if err := CheckPoint(p); err != nil {
		return "", false, err
	}
	key := idx.cellKey(p)
	for _, i := range idx.grid[key] {
		if !idx.boxes[i].contains(p) {
			continue
		}
		if idx.regions[i].Contains(p) {
			return idx.regions[i].Code, true, nil
		}
	}
	return "", false, nil
}

// IsWithinBounds reports whether the point resolves to the given zone.
func (a *Atlas) IsWithinBounds(p Point, code string) (bool, error) {
	found, ok, err := a.FindRegion(p)
	if err != nil {
		return false, err
	}
	return ok && found == code, nil
}

// ContainsAny reports whether the point falls inside the canonical study
// area, taken as the union of all loaded zones.
func (a *Atlas) ContainsAny(p Point) (bool, error) {
	_, ok, err := a.FindRegion(p)
	return ok, err
}

func buildIndex(regions []Region, cellDegrees float64) (*index, error) {
	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	idx := &index{
		regions: sorted,
		boxes:   make([]bounds, len(sorted)),
		grid:    make(map[[2]int][]int),
		cell:    cellDegrees,
		byCode:  make(map[string]int, len(sorted)),
	}

	for i := range sorted {
		r := &sorted[i]
		if len(r.Polygons) == 0 {
			return nil, &LoadError{RegionCode: r.Code, Detail: "no geometry"}
		}
		for _, pg := range r.Polygons {
			if len(pg.Outer) < 3 {
				return nil, &LoadError{RegionCode: r.Code, Detail: "outer ring has fewer than 3 vertices"}
			}
			for _, h := range pg.Holes {
				if len(h) < 3 {
					return nil, &LoadError{RegionCode: r.Code, Detail: "hole ring has fewer than 3 vertices"}
				}
			}
		}
		idx.byCode[r.Code] = i
		idx.boxes[i] = regionBounds(r)
		idx.addToGrid(i)
	}
	return idx, nil
}

// addToGrid registers region i in every grid cell its bounding box covers.
func (idx *index) addToGrid(i int) {
	b := idx.boxes[i]
	minR := int(math.Floor(b.minLat / idx.cell))
	maxR := int(math.Floor(b.maxLat / idx.cell))
	minC := int(math.Floor(b.minLon / idx.cell))
	maxC := int(math.Floor(b.maxLon / idx.cell))
	for row := minR; row <= maxR; row++ {
		for col := minC; col <= maxC; col++ {
			key := [2]int{row, col}
			idx.grid[key] = append(idx.grid[key], i)
		}
	}
}

func (idx *index) cellKey(p Point) [2]int {
	return [2]int{int(math.Floor(p.Lat / idx.cell)), int(math.Floor(p.Lon / idx.cell))}
}

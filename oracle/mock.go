package oracle

import (
	"context"

	"github.com/skibsted/adm0reverse/quantize"
)

// HemisphereOracle divides the world into north/south with an ocean band
// around the equator. Grounded on oracle.py's MockSimpleOracle.
type HemisphereOracle struct {
	precision int
	q         int64
}

// NewHemisphereOracle returns a HemisphereOracle at the given precision.
func NewHemisphereOracle(precision int) *HemisphereOracle {
	return &HemisphereOracle{precision: precision, q: quantize.Q(precision)}
}

func (o *HemisphereOracle) Lookup(_ context.Context, ilat, _ int64) (CountryID, error) {
	midLat := 90 * o.q
	oceanBand := 5 * o.q
	if abs64(ilat-midLat) < oceanBand {
		return OceanID, nil
	}
	if ilat > midLat {
		return 1, nil // North
	}
	return 2, nil // South
}

func (o *HemisphereOracle) LookupBatch(ctx context.Context, points []Point) ([]CountryID, error) {
	return (BatchFromLookup{Lookuper: o}).LookupBatch(ctx, points)
}

func (o *HemisphereOracle) CountryCodes() map[CountryID]string {
	return map[CountryID]string{OceanID: "---", 1: "NO", 2: "SO"}
}

// CircleOracle places several circular "countries" at fixed grid locations.
// Grounded on oracle.py's MockCircleOracle.
type CircleOracle struct {
	precision int
	q         int64
	circles   []circle
}

type circle struct {
	cx, cy, r int64
	country   CountryID
}

// NewCircleOracle returns a CircleOracle at the given precision.
func NewCircleOracle(precision int) *CircleOracle {
	q := quantize.Q(precision)
	return &CircleOracle{
		precision: precision,
		q:         q,
		circles: []circle{
			{150 * q, 120 * q, 20 * q, 1},
			{190 * q, 135 * q, 15 * q, 2},
			{280 * q, 125 * q, 25 * q, 3},
			{130 * q, 60 * q, 18 * q, 4},
			{310 * q, 55 * q, 12 * q, 5},
		},
	}
}

func (o *CircleOracle) Lookup(_ context.Context, ilat, ilon int64) (CountryID, error) {
	for _, c := range o.circles {
		dx := ilon - c.cx
		dy := ilat - c.cy
		distSq := dx*dx + dy*dy
		if distSq <= c.r*c.r {
			return c.country, nil
		}
	}
	return OceanID, nil
}

func (o *CircleOracle) LookupBatch(ctx context.Context, points []Point) ([]CountryID, error) {
	return (BatchFromLookup{Lookuper: o}).LookupBatch(ctx, points)
}

func (o *CircleOracle) CountryCodes() map[CountryID]string {
	return map[CountryID]string{
		OceanID: "---",
		1:       "C1", 2: "C2", 3: "C3", 4: "C4", 5: "C5",
	}
}

// RectangleOracle places a handful of rectangular "countries". Grounded
// on oracle.py's MockRectangleOracle; used by spec scenario S3.
type RectangleOracle struct {
	precision  int
	q          int64
	rectangles []rectCountry
}

type rectCountry struct {
	x0, y0, x1, y1 int64
	country        CountryID
}

// NewRectangleOracle returns a RectangleOracle at the given precision.
func NewRectangleOracle(precision int) *RectangleOracle {
	q := quantize.Q(precision)
	return &RectangleOracle{
		precision: precision,
		q:         q,
		rectangles: []rectCountry{
			{60 * q, 100 * q, 120 * q, 140 * q, 1}, // "US"
			{110 * q, 50 * q, 150 * q, 90 * q, 2},  // "BR"
			{170 * q, 115 * q, 210 * q, 160 * q, 3}, // "EU"
			{255 * q, 100 * q, 300 * q, 140 * q, 4}, // "CN"
			{290 * q, 40 * q, 330 * q, 75 * q, 5},   // "AU"
		},
	}
}

func (o *RectangleOracle) Lookup(_ context.Context, ilat, ilon int64) (CountryID, error) {
	for _, r := range o.rectangles {
		if r.x0 <= ilon && ilon <= r.x1 && r.y0 <= ilat && ilat <= r.y1 {
			return r.country, nil
		}
	}
	return OceanID, nil
}

func (o *RectangleOracle) LookupBatch(ctx context.Context, points []Point) ([]CountryID, error) {
	return (BatchFromLookup{Lookuper: o}).LookupBatch(ctx, points)
}

func (o *RectangleOracle) CountryCodes() map[CountryID]string {
	return map[CountryID]string{
		OceanID: "---",
		1:       "US", 2: "BR", 3: "EU", 4: "CN", 5: "AU",
	}
}

// GridOracle divides the world into an alternating checkerboard pattern,
// useful for stress-testing the builder with a dense mixed region.
// Grounded on oracle.py's MockGridOracle.
type GridOracle struct {
	precision int
	cellSize  int64
}

// NewGridOracle returns a GridOracle with gridSize cells per degree. The
// cell size is 10^precision / gridSize lattice steps, truncated; when that
// comes out zero (gridSize of 0, or larger than 10^precision) every point
// maps to country 1.
func NewGridOracle(precision int, gridSize int64) *GridOracle {
	q := quantize.Q(precision)
	cellSize := int64(0)
	if gridSize > 0 {
		cellSize = q / gridSize
	}
	return &GridOracle{precision: precision, cellSize: cellSize}
}

func (o *GridOracle) Lookup(_ context.Context, ilat, ilon int64) (CountryID, error) {
	if o.cellSize == 0 {
		return 1, nil
	}
	cellX := ilon / o.cellSize
	cellY := ilat / o.cellSize
	if (cellX+cellY)%2 == 0 {
		return 1, nil
	}
	return 2, nil
}

func (o *GridOracle) LookupBatch(ctx context.Context, points []Point) ([]CountryID, error) {
	return (BatchFromLookup{Lookuper: o}).LookupBatch(ctx, points)
}

func (o *GridOracle) CountryCodes() map[CountryID]string {
	return map[CountryID]string{OceanID: "---", 1: "A1", 2: "A2"}
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

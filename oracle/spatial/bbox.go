// Package spatial implements the real, database-backed Oracle: country
// polygons loaded from SQLite via paulmach/orb, indexed by an R*-tree for
// candidate narrowing, with a rotating-generation result cache in front of
// the expensive point-in-polygon test. Grounded on tormol/AIS's
// storage package: rStarTree.go's R*-tree (re-keyed from boat positions
// to polygon bounding boxes), duplicateTester.go's two-generation map
// (re-keyed from packet dedup to a query cache), and geoJson.go's
// string-concatenation debug dump.
package spatial

import "math"

// bbox is an axis-aligned bounding box in WGS84 degrees (min/max lat/lon),
// the R*-tree's minimum bounding rectangle. Grounded on geo.Rectangle, but
// trimmed to exactly what the tree needs.
type bbox struct {
	minLat, minLon, maxLat, maxLon float64
}

func bboxOf(boxes ...bbox) bbox {
	b := boxes[0]
	for _, o := range boxes[1:] {
		if o.minLat < b.minLat {
			b.minLat = o.minLat
		}
		if o.minLon < b.minLon {
			b.minLon = o.minLon
		}
		if o.maxLat > b.maxLat {
			b.maxLat = o.maxLat
		}
		if o.maxLon > b.maxLon {
			b.maxLon = o.maxLon
		}
	}
	return b
}

func (b bbox) area() float64 {
	return math.Max(0, b.maxLat-b.minLat) * math.Max(0, b.maxLon-b.minLon)
}

func (b bbox) margin() float64 {
	return (b.maxLat - b.minLat) + (b.maxLon - b.minLon)
}

func (b bbox) center() (lat, lon float64) {
	return (b.minLat + b.maxLat) / 2, (b.minLon + b.maxLon) / 2
}

func (b bbox) mbrWith(o bbox) bbox { return bboxOf(b, o) }

func (b bbox) overlapWith(o bbox) float64 {
	latOverlap := math.Max(0, math.Min(b.maxLat, o.maxLat)-math.Max(b.minLat, o.minLat))
	lonOverlap := math.Max(0, math.Min(b.maxLon, o.maxLon)-math.Max(b.minLon, o.minLon))
	return latOverlap * lonOverlap
}

func (b bbox) areaDifference(enlarged bbox) float64 {
	return enlarged.area() - b.area()
}

func (b bbox) overlaps(o bbox) bool {
	return b.minLat <= o.maxLat && o.minLat <= b.maxLat &&
		b.minLon <= o.maxLon && o.minLon <= b.maxLon
}

func (b bbox) contains(lat, lon float64) bool {
	return b.minLat <= lat && lat <= b.maxLat && b.minLon <= lon && lon <= b.maxLon
}

func distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

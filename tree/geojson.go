package tree

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/skibsted/adm0reverse/geom"
	"github.com/skibsted/adm0reverse/quantize"
)

// DebugGeoJSON renders every leaf rectangle in the tree as a GeoJSON
// FeatureCollection of Polygon features tagged with the leaf's country
// code, for visual inspection of how the builder partitioned the grid.
// This is the quadtree analogue of an R-tree's "dump the spatial index as
// GeoJSON" debug helper: built with direct string concatenation rather
// than a marshalled struct tree, matching the teacher's own GeoJSON
// encoder.
func (t *Tree) DebugGeoJSON(countryCodes map[CountryID]string) string {
	var features []string
	collectLeafFeatures(t.Root, t.Bounds, t.Precision, countryCodes, &features)
	return `{"type": "FeatureCollection", "features": [` + strings.Join(features, ", ") + `]}`
}

func collectLeafFeatures(n *Node, rect geom.Rectangle, precision int, countryCodes map[CountryID]string, out *[]string) {
	if n == nil {
		return
	}
	if n.Leaf {
		*out = append(*out, leafFeature(rect, precision, n.Country, countryCodes))
		return
	}
	childRects := rect.Subdivide()
	for i, child := range n.Children {
		if child != nil {
			collectLeafFeatures(child, *childRects[i], precision, countryCodes, out)
		}
	}
}

func leafFeature(rect geom.Rectangle, precision int, country CountryID, countryCodes map[CountryID]string) string {
	minLat, minLon := quantize.Dequantize(rect.Y0, rect.X0, precision)
	maxLat, maxLon := quantize.Dequantize(rect.Y1, rect.X1, precision)

	code := countryCodes[country]
	codeJSON, _ := json.Marshal(code)

	ring := `[[` +
		coord(minLon, minLat) + `, ` +
		coord(maxLon, minLat) + `, ` +
		coord(maxLon, maxLat) + `, ` +
		coord(minLon, maxLat) + `, ` +
		coord(minLon, minLat) +
		`]]`

	return `{
		"type": "Feature",
		"geometry": {
			"type": "Polygon",
			"coordinates": ` + ring + `
		},
		"properties": {
			"country_id": ` + strconv.FormatUint(uint64(country), 10) + `,
			"iso": ` + string(codeJSON) + `
		}
	}`
}

func coord(lon, lat float64) string {
	return "[" + strconv.FormatFloat(lon, 'f', 6, 64) + ", " + strconv.FormatFloat(lat, 'f', 6, 64) + "]"
}

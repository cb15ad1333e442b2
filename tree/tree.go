package tree

import (
	"fmt"

	"github.com/skibsted/adm0reverse/geom"
	"github.com/skibsted/adm0reverse/quantize"
)

// Tree is an immutable sparse quadtree over a quantized lattice.
type Tree struct {
	Root      *Node
	Bounds    geom.Rectangle
	Precision int
}

// New wraps a root node with its bounds and precision. The tree is
// immutable after construction: no mutation operations exist.
func New(root *Node, bounds geom.Rectangle, precision int) *Tree {
	return &Tree{Root: root, Bounds: bounds, Precision: precision}
}

// LookupIndices returns the country id for lattice point (ilat, ilon). The
// point must be within Bounds; callers that accept raw coordinates should
// go through LookupCoords instead, which clamps.
func (t *Tree) LookupIndices(ilat, ilon int64) (CountryID, error) {
	if !t.Bounds.Contains(ilon, ilat) {
		return 0, fmt.Errorf("tree: point (ilat=%d, ilon=%d) outside bounds %v", ilat, ilon, t.Bounds)
	}
	return t.Root.lookup(ilon, ilat, t.Bounds), nil
}

// LookupCoords quantizes (lat, lon) and looks up the resulting lattice
// point. Coordinates outside WGS84 bounds are clamped by Quantize, never
// rejected, so this never errors on well-formed float64 input.
func (t *Tree) LookupCoords(lat, lon float64) CountryID {
	ilat, ilon := quantize.Quantize(lat, lon, t.Precision)
	// Bounds always contain a freshly quantized point by construction, so
	// the error path here is unreachable for a well-formed tree.
	id, err := t.LookupIndices(ilat, ilon)
	if err != nil {
		panic(fmt.Sprintf("tree: quantized point unexpectedly out of bounds: %v", err))
	}
	return id
}

// NodeCount returns the total number of nodes in the tree.
func (t *Tree) NodeCount() int { return t.Root.NodeCount() }

// LeafCount returns the number of leaves in the tree.
func (t *Tree) LeafCount() int { return t.Root.LeafCount() }

// Depth returns the maximum depth of the tree.
func (t *Tree) Depth() int { return t.Root.MaxDepth() }

// Package tree holds the sparse quadtree node model: a tagged variant of
// Leaf (uniform region) and Internal (up to four present children), and
// the read-only lookup path over it.
package tree

import "github.com/skibsted/adm0reverse/geom"

// CountryID identifies a country; 0 is reserved for ocean/unknown.
type CountryID = uint32

// OceanID is the reserved "no country" id.
const OceanID CountryID = 0

// Node is a discriminated union: exactly one of Leaf or Internal is set.
// It is modelled as a tagged struct rather than an interface hierarchy so
// that reads are a single tag switch and the fixed 4-slot child array
// stays uniform even when up to three slots are nil.
type Node struct {
	Leaf     bool
	Country  CountryID   // valid iff Leaf
	Children [4]*Node    // valid iff !Leaf; nil slot = absent child
}

// NewLeaf returns a leaf node carrying country.
func NewLeaf(country CountryID) *Node {
	return &Node{Leaf: true, Country: country}
}

// NewInternal returns an internal node with the given children (NW, NE,
// SW, SE order). children must have exactly 4 entries and at least two
// must be non-nil, or the split that produced it was wasted.
func NewInternal(children [4]*Node) *Node {
	present := 0
	for _, c := range children {
		if c != nil {
			present++
		}
	}
	if present < 2 {
		panic("tree: internal node must have at least 2 present children")
	}
	return &Node{Leaf: false, Children: children}
}

// NodeCount returns the number of nodes in this subtree, including n.
func (n *Node) NodeCount() int {
	if n == nil {
		return 0
	}
	if n.Leaf {
		return 1
	}
	count := 1
	for _, c := range n.Children {
		count += c.NodeCount()
	}
	return count
}

// LeafCount returns the number of leaves in this subtree.
func (n *Node) LeafCount() int {
	if n == nil {
		return 0
	}
	if n.Leaf {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.LeafCount()
	}
	return count
}

// MaxDepth returns the maximum depth of this subtree (0 for a leaf).
func (n *Node) MaxDepth() int {
	if n == nil || n.Leaf {
		return 0
	}
	max := 0
	for _, c := range n.Children {
		if d := c.MaxDepth(); d > max {
			max = d
		}
	}
	return 1 + max
}

// lookup descends the tree for point (x, y), tracking rect as the
// rectangle the current node represents. A nil child reached during
// descent is a structural error: the builder must never emit such a tree.
func (n *Node) lookup(x, y int64, rect geom.Rectangle) CountryID {
	if n.Leaf {
		return n.Country
	}
	idx := rect.ChildIndexForPoint(x, y)
	child := n.Children[idx]
	if child == nil {
		panic("tree: structural error, descent reached an absent child")
	}
	childRects := rect.Subdivide()
	return child.lookup(x, y, *childRects[idx])
}

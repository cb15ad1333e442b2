// Package geom implements the axis-aligned integer rectangle the quadtree
// is built over, its fixed NW/NE/SW/SE subdivision, and deterministic
// per-rectangle point sampling.
package geom

import "fmt"

// Child indices, fixed across every reader and writer of the tree.
const (
	NW = 0
	NE = 1
	SW = 2
	SE = 3
)

// Rectangle is an axis-aligned region of the lattice: x corresponds to
// longitude index (ilon), y to latitude index (ilat). Both ranges are
// inclusive.
type Rectangle struct {
	X0, X1 int64
	Y0, Y1 int64
}

// New returns a Rectangle, validating x0<=x1 and y0<=y1.
func New(x0, x1, y0, y1 int64) (Rectangle, error) {
	if x0 > x1 || y0 > y1 {
		return Rectangle{}, fmt.Errorf("invalid rectangle: x0=%d x1=%d y0=%d y1=%d", x0, x1, y0, y1)
	}
	return Rectangle{X0: x0, X1: x1, Y0: y0, Y1: y1}, nil
}

// Width is the number of lattice points along the x-axis.
func (r Rectangle) Width() int64 { return r.X1 - r.X0 + 1 }

// Height is the number of lattice points along the y-axis.
func (r Rectangle) Height() int64 { return r.Y1 - r.Y0 + 1 }

// PointCount is the total number of lattice points in the rectangle.
func (r Rectangle) PointCount() int64 { return r.Width() * r.Height() }

// IsSinglePoint reports whether the rectangle covers exactly one point.
func (r Rectangle) IsSinglePoint() bool { return r.X0 == r.X1 && r.Y0 == r.Y1 }

// Contains reports whether (x, y) lies within the closed rectangle.
func (r Rectangle) Contains(x, y int64) bool {
	return r.X0 <= x && x <= r.X1 && r.Y0 <= y && y <= r.Y1
}

// Midpoints returns the truncating-division midpoint column and row; the
// midpoint row/column belong to the lower halves of a subdivision.
func (r Rectangle) Midpoints() (xm, ym int64) {
	return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2
}

// Subdivide splits the rectangle into up to four quadrants in the fixed
// order NW, NE, SW, SE. A child is nil when its range would be empty. SW
// is always present for a non-single-point rectangle. Panics if called on
// a single-point rectangle, since those are never subdivided.
func (r Rectangle) Subdivide() [4]*Rectangle {
	if r.IsSinglePoint() {
		panic("geom: cannot subdivide a single-point rectangle")
	}

	xm, ym := r.Midpoints()
	var children [4]*Rectangle

	if ym+1 <= r.Y1 {
		nw := Rectangle{X0: r.X0, X1: xm, Y0: ym + 1, Y1: r.Y1}
		children[NW] = &nw
	}
	if xm+1 <= r.X1 && ym+1 <= r.Y1 {
		ne := Rectangle{X0: xm + 1, X1: r.X1, Y0: ym + 1, Y1: r.Y1}
		children[NE] = &ne
	}
	sw := Rectangle{X0: r.X0, X1: xm, Y0: r.Y0, Y1: ym}
	children[SW] = &sw
	if xm+1 <= r.X1 {
		se := Rectangle{X0: xm + 1, X1: r.X1, Y0: r.Y0, Y1: ym}
		children[SE] = &se
	}

	return children
}

// ChildIndexForPoint returns which of the four quadrants a contained point
// falls into. The tie-break (y > ym -> upper, x <= xm -> left) must match
// Subdivide's ranges exactly.
func (r Rectangle) ChildIndexForPoint(x, y int64) int {
	if !r.Contains(x, y) {
		panic(fmt.Sprintf("geom: point (%d, %d) not in rectangle %v", x, y, r))
	}

	xm, ym := r.Midpoints()
	if y > ym {
		if x <= xm {
			return NW
		}
		return NE
	}
	if x <= xm {
		return SW
	}
	return SE
}

// IterPoints calls visit for every lattice point in the rectangle in
// row-major order (y outer, x inner), stopping early if visit returns
// false. It never materializes the point list: for precision 2 a single
// rectangle can hold on the order of 6.5*10^8 points.
func (r Rectangle) IterPoints(visit func(x, y int64) bool) {
	for y := r.Y0; y <= r.Y1; y++ {
		for x := r.X0; x <= r.X1; x++ {
			if !visit(x, y) {
				return
			}
		}
	}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("Rectangle{x:[%d,%d] y:[%d,%d]}", r.X0, r.X1, r.Y0, r.Y1)
}

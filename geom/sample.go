package geom

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Point is a sampled lattice coordinate.
type Point struct {
	X, Y int64
}

// SeedFor derives a rectangle-local sampling seed from the global seed and
// the rectangle's coordinates, so that sampling one rectangle never
// perturbs another's sequence and builds are reproducible run to run.
//
// The digest algorithm is not normative (the spec only fixes the
// convention of taking the first 32 bits big-endian), so sha256 is used
// here rather than md5.
func SeedFor(globalSeed int64, r Rectangle) int64 {
	data := fmt.Sprintf("%d:%d:%d:%d:%d", globalSeed, r.X0, r.X1, r.Y0, r.Y1)
	sum := sha256.Sum256([]byte(data))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

// SamplePoints produces up to count distinct sample points from the
// rectangle in a fixed order: four corners, center, axis-thirds
// stratification, then deterministic random fill, deduplicated and
// truncated to count.
func SamplePoints(r Rectangle, count int, seed int64) []Point {
	if count <= 0 {
		return nil
	}

	points := make([]Point, 0, count+8)

	// Four corners: SW, SE, NW, NE.
	points = append(points,
		Point{r.X0, r.Y0},
		Point{r.X1, r.Y0},
		Point{r.X0, r.Y1},
		Point{r.X1, r.Y1},
	)

	xm, ym := r.Midpoints()
	points = append(points, Point{xm, ym})

	width, height := r.Width(), r.Height()
	if width > 2 {
		points = append(points,
			Point{r.X0 + width/3, ym},
			Point{r.X0 + (2 * width / 3), ym},
		)
	}
	if height > 2 {
		points = append(points,
			Point{xm, r.Y0 + height/3},
			Point{xm, r.Y0 + (2 * height / 3)},
		)
	}

	remaining := count - len(points)
	if remaining > 0 && r.PointCount() > int64(len(points)) {
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < remaining; i++ {
			x := r.X0 + int64(rng.Intn(int(width)))
			y := r.Y0 + int64(rng.Intn(int(height)))
			points = append(points, Point{x, y})
		}
	}

	return dedupTruncate(points, count)
}

func dedupTruncate(points []Point, count int) []Point {
	seen := make(map[Point]struct{}, len(points))
	unique := make([]Point, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
		if len(unique) == count {
			break
		}
	}
	return unique
}

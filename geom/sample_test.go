package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skibsted/adm0reverse/geom"
)

func TestSeedFor_DeterministicPerRectangle(t *testing.T) {
	r1, err := geom.New(0, 10, 0, 10)
	require.NoError(t, err)
	r2, err := geom.New(0, 10, 0, 11)
	require.NoError(t, err)

	a := geom.SeedFor(42, r1)
	b := geom.SeedFor(42, r1)
	assert.Equal(t, a, b, "same global seed and rectangle must yield the same local seed")

	c := geom.SeedFor(42, r2)
	assert.NotEqual(t, a, c, "different rectangles must (almost certainly) diverge")

	d := geom.SeedFor(7, r1)
	assert.NotEqual(t, a, d, "different global seeds must (almost certainly) diverge")
}

func TestSamplePoints_AllWithinRectangle(t *testing.T) {
	r, err := geom.New(5, 25, 10, 30)
	require.NoError(t, err)

	points := geom.SamplePoints(r, 16, 1)
	require.NotEmpty(t, points)
	for _, p := range points {
		assert.Truef(t, r.Contains(p.X, p.Y), "sample point %v outside %v", p, r)
	}
}

func TestSamplePoints_NeverExceedsRequestedCount(t *testing.T) {
	r, err := geom.New(0, 1000, 0, 1000)
	require.NoError(t, err)

	for _, k := range []int{0, 1, 4, 16, 64} {
		points := geom.SamplePoints(r, k, 99)
		assert.LessOrEqualf(t, len(points), k, "requested %d points", k)
	}
}

func TestSamplePoints_NoDuplicates(t *testing.T) {
	r, err := geom.New(0, 50, 0, 50)
	require.NoError(t, err)

	points := geom.SamplePoints(r, 32, 7)
	seen := make(map[geom.Point]bool)
	for _, p := range points {
		assert.Falsef(t, seen[p], "duplicate sample point %v", p)
		seen[p] = true
	}
}

func TestSamplePoints_SinglePointRectangleReturnsThatPoint(t *testing.T) {
	r, err := geom.New(5, 5, 5, 5)
	require.NoError(t, err)

	points := geom.SamplePoints(r, 16, 1)
	require.Len(t, points, 1)
	assert.Equal(t, geom.Point{X: 5, Y: 5}, points[0])
}

func TestSamplePoints_SameSeedIsReproducible(t *testing.T) {
	r, err := geom.New(0, 500, 0, 500)
	require.NoError(t, err)

	a := geom.SamplePoints(r, 16, 123)
	b := geom.SamplePoints(r, 16, 123)
	assert.Equal(t, a, b)
}

func TestSamplePoints_ZeroOrNegativeCountIsEmpty(t *testing.T) {
	r, err := geom.New(0, 10, 0, 10)
	require.NoError(t, err)

	assert.Nil(t, geom.SamplePoints(r, 0, 1))
	assert.Nil(t, geom.SamplePoints(r, -5, 1))
}

func TestSamplePoints_IncludesCorners(t *testing.T) {
	r, err := geom.New(0, 20, 0, 20)
	require.NoError(t, err)

	points := geom.SamplePoints(r, 16, 1)
	has := func(x, y int64) bool {
		for _, p := range points {
			if p.X == x && p.Y == y {
				return true
			}
		}
		return false
	}
	assert.True(t, has(r.X0, r.Y0))
	assert.True(t, has(r.X1, r.Y1))
}

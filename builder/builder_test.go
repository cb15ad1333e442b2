package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skibsted/adm0reverse/builder"
	"github.com/skibsted/adm0reverse/oracle"
)

func smallConfig(precision int) builder.Config {
	c := builder.DefaultConfig(precision)
	c.SampleK = 8
	c.BruteForceThreshold = 64
	c.BatchSize = 32
	return c
}

// S1: a uniform world collapses to a single leaf at the root.
func TestBuild_UniformWorldIsSingleLeaf(t *testing.T) {
	oc := oracle.FuncOracle{Func: func(_, _ int64) oracle.CountryID { return 7 }}

	// The root can only be proven uniform if all 361*181 = 65341 lattice
	// points fit under the brute-force threshold.
	cfg := smallConfig(0)
	cfg.BruteForceThreshold = 65341

	tr, stats, err := builder.Build(context.Background(), oc, cfg, nil)
	require.NoError(t, err)

	assert.True(t, tr.Root.Leaf)
	assert.Equal(t, oracle.CountryID(7), tr.Root.Country)
	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, int64(1), stats.LeavesCreated)
	assert.Zero(t, stats.InternalNodesCreated)

	// Every lattice point, corners included, must resolve to the one country.
	for _, lat := range []float64{-90, -45, 0, 45, 90} {
		for _, lon := range []float64{-180, -90, 0, 90, 180} {
			assert.Equal(t, oracle.CountryID(7), tr.LookupCoords(lat, lon))
		}
	}
}

// S2: a two-region split along a simple boundary is captured correctly on
// both sides, with no leakage across the boundary.
func TestBuild_HemisphereSplit(t *testing.T) {
	oc := oracle.NewHemisphereOracle(0)

	tr, stats, err := builder.Build(context.Background(), oc, smallConfig(0), nil)
	require.NoError(t, err)
	assert.False(t, tr.Root.Leaf)
	assert.Greater(t, stats.InternalNodesCreated, int64(0))

	assert.EqualValues(t, 1, tr.LookupCoords(80, 10))  // well north
	assert.EqualValues(t, 2, tr.LookupCoords(-80, 10)) // well south
	assert.EqualValues(t, 0, tr.LookupCoords(0, 10))   // equatorial ocean band
}

// S3: several disjoint rectangular countries are each resolved precisely,
// including points just outside every rectangle (ocean).
func TestBuild_RectangleCountries(t *testing.T) {
	oc := oracle.NewRectangleOracle(0)

	tr, _, err := builder.Build(context.Background(), oc, smallConfig(0), nil)
	require.NoError(t, err)

	for ilon := int64(0); ilon <= 360; ilon += 15 {
		for ilat := int64(0); ilat <= 180; ilat += 15 {
			want, err := oc.Lookup(context.Background(), ilat, ilon)
			require.NoError(t, err)
			got, err := tr.LookupIndices(ilat, ilon)
			require.NoError(t, err)
			assert.Equalf(t, want, got, "mismatch at ilat=%d ilon=%d", ilat, ilon)
		}
	}
}

// S4 / the max_depth open question: a rectangle that never agrees, however
// far it is subdivided, must make the build fail loudly rather than emit an
// approximate leaf.
func TestBuild_MaxDepthExceeded_FailsLoudly(t *testing.T) {
	checkerboard := oracle.FuncOracle{Func: func(ilat, ilon int64) oracle.CountryID {
		if (ilat+ilon)%2 == 0 {
			return 1
		}
		return 2
	}}

	cfg := smallConfig(0)
	cfg.MaxDepth = 3
	cfg.BruteForceThreshold = 1

	_, _, err := builder.Build(context.Background(), checkerboard, cfg, nil)
	require.Error(t, err)

	var depthErr *builder.MaxDepthExceededError
	require.True(t, errors.As(err, &depthErr))
	assert.Equal(t, 3, depthErr.Depth)
}

// Regression test: a rectangle too large to brute-force-verify must always
// split, even when every point the deterministic structured sample visits
// (corners, center, axis-thirds) happens to agree. This oracle is uniform
// everywhere except a single lattice point tucked away from all of those
// sample positions at the root, so an implementation that trusts an
// unverified sample above the threshold would wrongly collapse the whole
// world into one majority leaf, hiding the deviant point entirely.
func TestBuild_LargeNonUniformRegionNeverLeafsUnverified(t *testing.T) {
	const deviantIlat, deviantIlon = 1, 1
	oc := oracle.FuncOracle{Func: func(ilat, ilon int64) oracle.CountryID {
		if ilat == deviantIlat && ilon == deviantIlon {
			return 2
		}
		return 1
	}}

	tr, stats, err := builder.Build(context.Background(), oc, smallConfig(0), nil)
	require.NoError(t, err)

	assert.False(t, tr.Root.Leaf, "a non-uniform region above the brute-force threshold must split rather than leaf unverified")
	assert.Greater(t, stats.InternalNodesCreated, int64(0))

	got, err := tr.LookupIndices(deviantIlat, deviantIlon)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got, "the deviant point must resolve to its own country, not be swallowed by the majority")

	got, err = tr.LookupIndices(90, 180)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got, "everywhere else must still resolve to the majority country")
}

// Concurrent builds (Concurrency > 1) must produce a tree that answers
// every lookup identically to the sequential build, since Concurrency only
// changes how sibling subtrees are scheduled, never the algorithm.
func TestBuild_ConcurrencyMatchesSequential(t *testing.T) {
	oc := oracle.NewCircleOracle(0)

	seqCfg := smallConfig(0)
	seqTree, _, err := builder.Build(context.Background(), oc, seqCfg, nil)
	require.NoError(t, err)

	parCfg := seqCfg
	parCfg.Concurrency = 4
	parTree, _, err := builder.Build(context.Background(), oc, parCfg, nil)
	require.NoError(t, err)

	for ilon := int64(0); ilon <= 360; ilon += 10 {
		for ilat := int64(0); ilat <= 180; ilat += 10 {
			want, err := seqTree.LookupIndices(ilat, ilon)
			require.NoError(t, err)
			got, err := parTree.LookupIndices(ilat, ilon)
			require.NoError(t, err)
			assert.Equalf(t, want, got, "mismatch at ilat=%d ilon=%d", ilat, ilon)
		}
	}
}

func TestConfig_ValidateRejectsBadFields(t *testing.T) {
	for _, tc := range []struct {
		name string
		mut  func(*builder.Config)
	}{
		{"negative precision", func(c *builder.Config) { c.Precision = -1 }},
		{"zero sample k", func(c *builder.Config) { c.SampleK = 0 }},
		{"zero brute force threshold", func(c *builder.Config) { c.BruteForceThreshold = 0 }},
		{"zero max depth", func(c *builder.Config) { c.MaxDepth = 0 }},
		{"zero batch size", func(c *builder.Config) { c.BatchSize = 0 }},
		{"zero concurrency", func(c *builder.Config) { c.Concurrency = 0 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := builder.DefaultConfig(2)
			tc.mut(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

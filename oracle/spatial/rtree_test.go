package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRTree_QueryCandidatesFindsOverlappingLeaves(t *testing.T) {
	tree := newRTree()
	tree.insertRing(bbox{minLat: 0, minLon: 0, maxLat: 10, maxLon: 10}, 0)
	tree.insertRing(bbox{minLat: 20, minLon: 20, maxLat: 30, maxLon: 30}, 1)
	tree.insertRing(bbox{minLat: 5, minLon: 5, maxLat: 8, maxLon: 8}, 2) // nested inside ring 0

	got := tree.queryCandidates(6, 6, nil)
	assert.ElementsMatch(t, []int{0, 2}, got)

	got = tree.queryCandidates(25, 25, nil)
	assert.ElementsMatch(t, []int{1}, got)

	got = tree.queryCandidates(50, 50, nil)
	assert.Empty(t, got)
}

func TestRTree_SurvivesManyInsertsPastOneSplit(t *testing.T) {
	tree := newRTree()
	for i := 0; i < 500; i++ {
		lat := float64(i % 50)
		lon := float64(i / 50)
		tree.insertRing(bbox{minLat: lat, minLon: lon, maxLat: lat + 1, maxLon: lon + 1}, i)
	}
	assert.Equal(t, 500, tree.count)

	// A query at a known inserted box's center must find it.
	got := tree.queryCandidates(0.5, 0.5, nil)
	assert.Contains(t, got, 0)
}

func TestBBox_OverlapAndContains(t *testing.T) {
	a := bbox{minLat: 0, minLon: 0, maxLat: 10, maxLon: 10}
	b := bbox{minLat: 5, minLon: 5, maxLat: 15, maxLon: 15}
	c := bbox{minLat: 20, minLon: 20, maxLat: 30, maxLon: 30}

	assert.True(t, a.overlaps(b))
	assert.False(t, a.overlaps(c))
	assert.True(t, a.contains(1, 1))
	assert.False(t, a.contains(50, 50))

	merged := a.mbrWith(c)
	assert.Equal(t, 0.0, merged.minLat)
	assert.Equal(t, 30.0, merged.maxLat)
}

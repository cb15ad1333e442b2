// Package quantize converts between WGS84 (lat, lon) degrees and the
// integer lattice indices (ilat, ilon) the quadtree is built over.
//
// Precision p fixes the grid resolution: Q = 10^p, ilon ranges over
// [0, 360*Q] and ilat over [0, 180*Q]. The rounding rule (round-half-away-
// from-zero) is normative: it must give the same lattice point on the
// builder side and on any downstream decoder, or leaves proven uniform at
// build time would not correspond to the points actually queried later.
package quantize

import "math"

// Q returns 10^precision, the number of lattice steps per degree.
func Q(precision int) int64 {
	q := int64(1)
	for i := 0; i < precision; i++ {
		q *= 10
	}
	return q
}

// GridDimensions returns the maximum valid (ilon, ilat) indices for precision.
func GridDimensions(precision int) (maxIlon, maxIlat int64) {
	q := Q(precision)
	return 360 * q, 180 * q
}

// Clamp saturates lat into [-90, 90] and lon into [-180, 180].
func Clamp(lat, lon float64) (clampedLat, clampedLon float64) {
	clampedLat = math.Max(-90.0, math.Min(90.0, lat))
	clampedLon = math.Max(-180.0, math.Min(180.0, lon))
	return clampedLat, clampedLon
}

// roundHalfAwayFromZero matches C's round(): ties round away from zero.
// Implemented directly (rather than delegating to math.Round) so the rule
// stays an explicit, visible invariant rather than an accident of the
// standard library's definition.
func roundHalfAwayFromZero(x float64) int64 {
	if x >= 0 {
		return int64(x + 0.5)
	}
	return int64(x - 0.5)
}

// Quantize converts WGS84 degrees to lattice indices (ilat, ilon) at the
// given precision. Out-of-range input is clamped, never rejected.
func Quantize(lat, lon float64, precision int) (ilat, ilon int64) {
	lat, lon = Clamp(lat, lon)

	q := Q(precision)
	maxIlon, maxIlat := GridDimensions(precision)

	ilon = roundHalfAwayFromZero((lon + 180.0) * float64(q))
	ilat = roundHalfAwayFromZero((lat + 90.0) * float64(q))

	// Saturate to absorb floating point rounding at the extremes, e.g.
	// (180+180)*Q can come out a hair over 360*Q.
	ilon = clampInt64(ilon, 0, maxIlon)
	ilat = clampInt64(ilat, 0, maxIlat)

	return ilat, ilon
}

// Dequantize returns the lattice point's WGS84 coordinates: (ilat/Q - 90,
// ilon/Q - 180). It is the inverse lattice point, not a cell center.
func Dequantize(ilat, ilon int64, precision int) (lat, lon float64) {
	q := float64(Q(precision))
	lat = float64(ilat)/q - 90.0
	lon = float64(ilon)/q - 180.0
	return lat, lon
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

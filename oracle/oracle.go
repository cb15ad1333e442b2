// Package oracle defines the ground-truth classifier the builder queries,
// plus a set of deterministic mock oracles used for tests and the `test`
// CLI subcommand. The real spatial-database-backed oracle lives in the
// sibling oracle/spatial package and is not imported by the builder.
package oracle

import "context"

// CountryID identifies a country; 0 (OceanID) means ocean/no country.
type CountryID = uint32

// OceanID is the reserved "no country" id.
const OceanID CountryID = 0

// Point is an (ilat, ilon) lattice coordinate, in that order to match the
// oracle's calling convention (latitude first).
type Point struct {
	Ilat, Ilon int64
}

// Oracle is the abstract classifier the builder drives over rectangles.
// Lookup must be a pure function of (ilat, ilon) modulo caching; errors
// are fatal to the build, with no retry policy at this layer (an oracle
// implementation is free to retry internally, as oracle/spatial does).
type Oracle interface {
	// Lookup returns the country id for a single lattice point.
	Lookup(ctx context.Context, ilat, ilon int64) (CountryID, error)

	// LookupBatch returns country ids for each point, same length and
	// order as points. Implementations are expected to amortize batch
	// round-trips; the default embedding (BatchFromLookup) does not.
	LookupBatch(ctx context.Context, points []Point) ([]CountryID, error)

	// CountryCodes returns the full id -> ISO code mapping, including
	// OceanID mapped to a sentinel code.
	CountryCodes() map[CountryID]string
}

// BatchFromLookup is embeddable by Oracle implementations that have no
// faster batch path: LookupBatch falls back to calling Lookup once per
// point, in order.
type BatchFromLookup struct {
	Lookuper interface {
		Lookup(ctx context.Context, ilat, ilon int64) (CountryID, error)
	}
}

// LookupBatch implements Oracle.LookupBatch via repeated Lookup calls.
func (b BatchFromLookup) LookupBatch(ctx context.Context, points []Point) ([]CountryID, error) {
	ids := make([]CountryID, len(points))
	for i, p := range points {
		id, err := b.Lookuper.Lookup(ctx, p.Ilat, p.Ilon)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

package spatial

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	_ "github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/planar"

	"github.com/skibsted/adm0reverse/oracle"
	"github.com/skibsted/adm0reverse/quantize"
)

// Schema expected of the backing SQLite database: one row per polygon
// ring group, id is a stable country id (assigned by whatever loaded
// Natural Earth data into the table), iso its code, geom its boundary as
// WKB (Polygon or MultiPolygon). Grounded on duckdb_oracle.py's "countries"
// table, re-keyed from DuckDB's spatial extension to a plain SQLite BLOB
// column decoded in-process with paulmach/orb.
const selectCountriesSQL = `SELECT id, iso, geom FROM countries`

type ring struct {
	polygon orb.Polygon
	country oracle.CountryID
}

// Oracle is the real, database-backed classifier: country polygons loaded
// once at construction, narrowed per query by an R*-tree over their
// bounding boxes, confirmed by exact point-in-polygon testing, and cached
// by quantized lattice point so a rebuild's repeated sampling of
// neighboring rectangles rarely re-tests the same polygon twice.
type Oracle struct {
	precision int
	rings     []ring
	codes     map[oracle.CountryID]string
	tree      *rtree
	cache     *cache
}

// Open loads every country polygon from the SQLite database at path and
// builds the R*-tree and cache. The database connection itself is not
// retained past Open: once loaded, polygons live in process memory and
// Lookup makes no further I/O.
func Open(ctx context.Context, path string, precision int, cacheSize int) (*Oracle, error) {
	db, err := openWithRetry(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return loadFromDB(ctx, db, precision, cacheSize)
}

// loadFromDB is Open's body minus database/file opening, split out so
// tests can drive it against a sqlmock-backed *sql.DB instead of a real
// SQLite file.
func loadFromDB(ctx context.Context, db *sql.DB, precision int, cacheSize int) (*Oracle, error) {
	o := &Oracle{
		precision: precision,
		codes:     map[oracle.CountryID]string{oracle.OceanID: "---"},
		tree:      newRTree(),
		cache:     newCache(cacheSize),
	}

	rows, err := db.QueryContext(ctx, selectCountriesSQL)
	if err != nil {
		return nil, fmt.Errorf("spatial: querying countries table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var iso string
		var geomBytes []byte
		if err := rows.Scan(&id, &iso, &geomBytes); err != nil {
			return nil, fmt.Errorf("spatial: scanning countries row: %w", err)
		}

		geom, err := wkb.Unmarshal(geomBytes)
		if err != nil {
			return nil, fmt.Errorf("spatial: decoding WKB for country %d (%s): %w", id, iso, err)
		}

		countryID := oracle.CountryID(id)
		o.codes[countryID] = iso
		for _, poly := range polygonsOf(geom) {
			idx := len(o.rings)
			o.rings = append(o.rings, ring{polygon: poly, country: countryID})
			o.tree.insertRing(boundToBBox(poly.Bound()), idx)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("spatial: iterating countries table: %w", err)
	}

	return o, nil
}

func openWithRetry(path string) (*sql.DB, error) {
	var db *sql.DB
	op := func() error {
		d, err := sql.Open("sqlite3", path)
		if err != nil {
			return err
		}
		if err := d.Ping(); err != nil {
			d.Close()
			return err
		}
		db = d
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 10 * time.Second
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("spatial: opening %s: %w", path, err)
	}
	return db, nil
}

// polygonsOf normalizes a decoded WKB geometry to a slice of polygons: a
// bare Polygon becomes a one-element slice, a MultiPolygon is expanded so
// each ring group gets its own R*-tree entry and bounding box.
func polygonsOf(geom orb.Geometry) []orb.Polygon {
	switch g := geom.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return []orb.Polygon(g)
	default:
		return nil
	}
}

func boundToBBox(b orb.Bound) bbox {
	return bbox{minLat: b.Min.Y(), minLon: b.Min.X(), maxLat: b.Max.Y(), maxLon: b.Max.X()}
}

// Lookup satisfies oracle.Oracle: dequantizes the lattice point, consults
// the cache, then narrows candidates via the R*-tree and confirms with
// exact point-in-polygon testing. Every candidate is tested, and among the
// polygons that contain the point the one with the smallest bounding-box
// area wins, so an enclave nested inside a larger country wins over its
// host.
func (o *Oracle) Lookup(_ context.Context, ilat, ilon int64) (oracle.CountryID, error) {
	if id, ok := o.cache.get(ilat, ilon); ok {
		return id, nil
	}

	lat, lon := quantize.Dequantize(ilat, ilon, o.precision)
	point := orb.Point{lon, lat}

	candidates := o.tree.queryCandidates(lat, lon, nil)
	best := oracle.OceanID
	bestArea := -1.0
	for _, idx := range candidates {
		r := o.rings[idx]
		if !planar.PolygonContains(r.polygon, point) {
			continue
		}
		area := polygonBoundArea(r.polygon)
		if bestArea == -1 || area < bestArea {
			best, bestArea = r.country, area
		}
	}

	o.cache.put(ilat, ilon, best)
	return best, nil
}

func polygonBoundArea(p orb.Polygon) float64 {
	b := p.Bound()
	return (b.Max.X() - b.Min.X()) * (b.Max.Y() - b.Min.Y())
}

// LookupBatch has no faster path than repeated Lookup calls: every point
// still needs its own cache check and, on a miss, its own tree query.
func (o *Oracle) LookupBatch(ctx context.Context, points []oracle.Point) ([]oracle.CountryID, error) {
	return (oracle.BatchFromLookup{Lookuper: o}).LookupBatch(ctx, points)
}

// CountryCodes returns the id -> ISO mapping collected while loading.
func (o *Oracle) CountryCodes() map[oracle.CountryID]string {
	return o.codes
}

// Package builder implements the prove-or-split quadtree construction
// algorithm: sample a rectangle, verify or recurse, optionally falling back
// to brute-force verification below a size threshold. Grounded on
// builder.py's Builder.build/_build_node/_split, generalized from a single
// recursive function into buildContext methods so a bounded worker pool
// (golang.org/x/sync/errgroup) can fan sibling subtrees out concurrently
// without changing the recursion's sequential semantics.
package builder

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skibsted/adm0reverse/geom"
	"github.com/skibsted/adm0reverse/internal/buildlog"
	"github.com/skibsted/adm0reverse/oracle"
	"github.com/skibsted/adm0reverse/quantize"
	"github.com/skibsted/adm0reverse/tree"
)

// progressInterval is how often Build logs a progress line when given a
// non-nil periodic logger.
const progressInterval = 5 * time.Second

// buildContext carries everything a recursive build step needs, besides
// the rectangle and depth it is called with. sem is nil when Config.
// Concurrency is 1, which keeps the sequential path allocation-free.
type buildContext struct {
	oracle oracle.Oracle
	config Config
	stats  *Stats
	sem    chan struct{}
}

// Build runs the prove-or-split algorithm over the full lattice for the
// given precision and returns the resulting tree. log may be nil; when
// non-nil and periodic, a build-progress line is emitted on its schedule.
func Build(ctx context.Context, oc oracle.Oracle, config Config, log *buildlog.Logger) (*tree.Tree, Stats, error) {
	if err := config.Validate(); err != nil {
		return nil, Stats{}, err
	}

	maxIlon, maxIlat := quantize.GridDimensions(config.Precision)
	fullBounds, err := geom.New(0, maxIlon, 0, maxIlat)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("builder: computing full bounds: %w", err)
	}

	stats := &Stats{}
	bc := &buildContext{oracle: oc, config: config, stats: stats}
	if config.Concurrency > 1 {
		bc.sem = make(chan struct{}, config.Concurrency)
	}

	if log != nil {
		log.AddPeriodicLogger("builder-progress", progressInterval, func(l *buildlog.Logger, _ time.Duration) {
			snap := stats.snapshot()
			l.Info("build progress: nodes=%s leaves=%s oracle_calls=%s max_depth=%d",
				buildlog.SiMultiple(uint64(snap.NodesCreated), 1000, 'Y'),
				buildlog.SiMultiple(uint64(snap.LeavesCreated), 1000, 'Y'),
				buildlog.SiMultiple(uint64(snap.OracleCalls), 1000, 'Y'),
				snap.MaxDepthReached)
		})
	}

	root, err := bc.buildNode(ctx, fullBounds, 0)
	if err != nil {
		return nil, stats.snapshot(), err
	}
	return tree.New(root, fullBounds, config.Precision), stats.snapshot(), nil
}

// buildNode implements the four-step recursion from spec.md §4.4:
//  1. single-point rectangle -> leaf, one oracle call, no sampling.
//  2. max depth reached -> fail loudly (see MaxDepthExceededError).
//  3. sample the rectangle; if the sample disagrees, split.
//  4. if the sample agrees and point_count <= brute_force_threshold,
//     verify exhaustively; leaf if uniform, split otherwise. Above the
//     threshold a rectangle can never be proven uniform, so it is always
//     split, even though every sampled point agreed.
func (bc *buildContext) buildNode(ctx context.Context, rect geom.Rectangle, depth int) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("builder: build cancelled: %w", err)
	}
	bc.stats.recordDepth(depth)

	if rect.IsSinglePoint() {
		id, err := bc.oracle.Lookup(ctx, rect.Y0, rect.X0)
		if err != nil {
			return nil, fmt.Errorf("builder: oracle lookup at %v: %w", rect, err)
		}
		bc.stats.addOracleCalls(1)
		bc.stats.recordLeaf()
		return tree.NewLeaf(id), nil
	}

	if depth >= bc.config.MaxDepth {
		xm, ym := rect.Midpoints()
		centerID, err := bc.oracle.Lookup(ctx, ym, xm)
		if err != nil {
			return nil, fmt.Errorf("builder: oracle lookup at center of %v: %w", rect, err)
		}
		bc.stats.addOracleCalls(1)
		return nil, &MaxDepthExceededError{Rect: rect, Depth: depth, CenterCountryID: centerID}
	}

	sampled, err := bc.sampleRectangle(ctx, rect)
	if err != nil {
		return nil, err
	}

	if len(sampled) > 1 {
		bc.stats.recordSamplingMixed()
		return bc.split(ctx, rect, depth)
	}

	var candidate oracle.CountryID
	for id := range sampled {
		candidate = id
	}

	if rect.PointCount() > bc.config.BruteForceThreshold {
		// Too large to prove uniform: conservatively split rather than
		// trust the sample, even though it agreed everywhere it looked.
		return bc.split(ctx, rect, depth)
	}

	uniform, err := bc.bruteForceVerify(ctx, rect, candidate)
	if err != nil {
		return nil, err
	}
	if uniform {
		bc.stats.recordLeaf()
		return tree.NewLeaf(candidate), nil
	}
	bc.stats.recordBruteForceMixed()
	return bc.split(ctx, rect, depth)
}

// sampleRectangle draws the rectangle's deterministic sample set and
// returns the distinct country ids the oracle reports for it.
func (bc *buildContext) sampleRectangle(ctx context.Context, rect geom.Rectangle) (map[oracle.CountryID]struct{}, error) {
	seed := geom.SeedFor(bc.config.Seed, rect)
	points := geom.SamplePoints(rect, bc.config.SampleK, seed)

	oraclePoints := make([]oracle.Point, len(points))
	for i, p := range points {
		oraclePoints[i] = oracle.Point{Ilat: p.Y, Ilon: p.X}
	}

	ids, err := bc.oracle.LookupBatch(ctx, oraclePoints)
	if err != nil {
		return nil, fmt.Errorf("builder: sampling %v: %w", rect, err)
	}
	bc.stats.addOracleCalls(len(oraclePoints))

	set := make(map[oracle.CountryID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// bruteForceVerify queries every point of rect, in batches of
// Config.BatchSize, short-circuiting as soon as one disagrees with
// expected. Only ever called when rect.PointCount() <= BruteForceThreshold.
func (bc *buildContext) bruteForceVerify(ctx context.Context, rect geom.Rectangle, expected oracle.CountryID) (bool, error) {
	bc.stats.recordBruteForceVerification()

	batch := make([]oracle.Point, 0, bc.config.BatchSize)
	flush := func() (bool, error) {
		if len(batch) == 0 {
			return true, nil
		}
		ids, err := bc.oracle.LookupBatch(ctx, batch)
		if err != nil {
			return false, fmt.Errorf("builder: brute-force verifying %v: %w", rect, err)
		}
		bc.stats.addOracleCalls(len(batch))
		for _, id := range ids {
			if id != expected {
				return false, nil
			}
		}
		batch = batch[:0]
		return true, nil
	}

	mismatch := false
	var flushErr error
	rect.IterPoints(func(x, y int64) bool {
		batch = append(batch, oracle.Point{Ilat: y, Ilon: x})
		if len(batch) < bc.config.BatchSize {
			return true
		}
		ok, err := flush()
		if err != nil {
			flushErr = err
			return false
		}
		if !ok {
			mismatch = true
			return false
		}
		return true
	})
	if flushErr != nil {
		return false, flushErr
	}
	if mismatch {
		return false, nil
	}
	return flush()
}

// split subdivides rect into its present children and recurses into each.
// With Config.Concurrency == 1 this runs strictly sequentially in NW, NE,
// SW, SE order. With Concurrency > 1, each present child is handed to the
// shared semaphore-bounded pool when a slot is free, and built on the
// calling goroutine otherwise; buildContext.sem caps the number of extra
// goroutines building rectangles anywhere in the tree at once, while the
// errgroup created here only scopes error propagation and waiting for this
// split's own children.
func (bc *buildContext) split(ctx context.Context, rect geom.Rectangle, depth int) (*tree.Node, error) {
	childRects := rect.Subdivide()
	var children [4]*tree.Node

	if bc.sem == nil {
		for i, cr := range childRects {
			if cr == nil {
				continue
			}
			child, err := bc.buildNode(ctx, *cr, depth+1)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, cr := range childRects {
			if cr == nil {
				continue
			}
			i, cr := i, cr
			select {
			case bc.sem <- struct{}{}:
			case <-ctx.Done():
				return nil, fmt.Errorf("builder: build cancelled: %w", ctx.Err())
			default:
				// Every slot is taken, possibly by ancestors waiting in their
				// own splits: build this child here instead of blocking.
				child, err := bc.buildNode(gctx, *cr, depth+1)
				if err != nil {
					_ = g.Wait()
					return nil, err
				}
				children[i] = child
				continue
			}
			g.Go(func() error {
				defer func() { <-bc.sem }()
				child, err := bc.buildNode(gctx, *cr, depth+1)
				if err != nil {
					return err
				}
				children[i] = child
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	bc.stats.recordInternal()
	return tree.NewInternal(children), nil
}

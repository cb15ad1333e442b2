package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skibsted/adm0reverse/builder"
	"github.com/skibsted/adm0reverse/codegen"
	"github.com/skibsted/adm0reverse/oracle"
	"github.com/skibsted/adm0reverse/oracle/spatial"
)

var buildFlags struct {
	precision           int
	output              string
	sampleK             int
	bruteForceThreshold int64
	maxDepth            int
	seed                int64
	concurrency         int
	noCompress          bool
	pkg                 string
	codeLength          int
	mockOracle          string
	database            string
	cacheSize           int
	dumpIndexGeoJSON    string
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a country lookup tree and emit it as Go source",
	RunE:  runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.IntVarP(&buildFlags.precision, "precision", "p", 2, "decimal precision")
	f.StringVarP(&buildFlags.output, "output", "o", "", "output file path (default: country_lookup_p<precision>.go)")
	f.IntVar(&buildFlags.sampleK, "sample-k", 16, "number of sample points per rectangle")
	f.Int64Var(&buildFlags.bruteForceThreshold, "brute-force-threshold", 16384, "max points to brute-force verify")
	f.IntVar(&buildFlags.maxDepth, "max-depth", 64, "maximum tree depth")
	f.Int64Var(&buildFlags.seed, "seed", 42, "sampling seed")
	f.IntVar(&buildFlags.concurrency, "concurrency", 1, "max concurrently-built sibling rectangles")
	f.BoolVar(&buildFlags.noCompress, "no-compress", false, "disable deflate compression of the tree blob")
	f.StringVar(&buildFlags.pkg, "package", "adm0", "generated Go package name")
	f.IntVar(&buildFlags.codeLength, "code-length", 3, "country code fixed width (2 or 3)")
	f.StringVar(&buildFlags.mockOracle, "mock-oracle", "", "use a mock oracle instead of real data: rectangle|circle|hemisphere|grid")
	f.StringVar(&buildFlags.database, "database", "", "SQLite database of country polygons (required unless --mock-oracle is set)")
	f.IntVar(&buildFlags.cacheSize, "cache-size", 100000, "spatial oracle query cache size")
	f.StringVar(&buildFlags.dumpIndexGeoJSON, "dump-index-geojson", "", "write the R*-tree spatial index as GeoJSON to this path (requires --database, not --mock-oracle)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	oc, err := resolveOracle(ctx)
	if err != nil {
		return err
	}

	if buildFlags.dumpIndexGeoJSON != "" {
		if err := dumpIndexGeoJSON(oc, buildFlags.dumpIndexGeoJSON); err != nil {
			return err
		}
	}

	cfg := builder.DefaultConfig(buildFlags.precision)
	cfg.SampleK = buildFlags.sampleK
	cfg.BruteForceThreshold = buildFlags.bruteForceThreshold
	cfg.MaxDepth = buildFlags.maxDepth
	cfg.Seed = buildFlags.seed
	cfg.Concurrency = buildFlags.concurrency

	logger.Info("building tree at precision %d", cfg.Precision)
	tr, stats, err := builder.Build(ctx, oc, cfg, logger)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	logger.Info("build complete: %d nodes, %d leaves, %d oracle calls, max depth %d",
		stats.NodesCreated, stats.LeavesCreated, stats.OracleCalls, stats.MaxDepthReached)

	artifact, err := codegen.BuildArtifact(buildFlags.pkg, tr, oc.CountryCodes(), buildFlags.codeLength, !buildFlags.noCompress)
	if err != nil {
		return fmt.Errorf("building artifact: %w", err)
	}

	src, err := codegen.GenerateGo(artifact)
	if err != nil {
		return fmt.Errorf("generating source: %w", err)
	}

	outPath := buildFlags.output
	if outPath == "" {
		outPath = fmt.Sprintf("country_lookup_p%d.go", buildFlags.precision)
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	logger.Info("wrote %s (%d bytes)", outPath, len(src))
	return nil
}

// resolveOracle picks either a mock oracle (for quick local testing, per
// --mock-oracle) or the real SQLite-backed spatial oracle.
func resolveOracle(ctx context.Context) (oracle.Oracle, error) {
	switch buildFlags.mockOracle {
	case "rectangle":
		return oracle.NewRectangleOracle(buildFlags.precision), nil
	case "circle":
		return oracle.NewCircleOracle(buildFlags.precision), nil
	case "hemisphere":
		return oracle.NewHemisphereOracle(buildFlags.precision), nil
	case "grid":
		return oracle.NewGridOracle(buildFlags.precision, 8), nil
	case "":
		if buildFlags.database == "" {
			return nil, fmt.Errorf("--database is required unless --mock-oracle is set")
		}
		return spatial.Open(ctx, buildFlags.database, buildFlags.precision, buildFlags.cacheSize)
	default:
		return nil, fmt.Errorf("unknown --mock-oracle %q", buildFlags.mockOracle)
	}
}

// dumpIndexGeoJSON writes the spatial oracle's R*-tree as a GeoJSON
// FeatureCollection for visual inspection. Only the real database-backed
// oracle carries an index to dump; a mock oracle has none.
func dumpIndexGeoJSON(oc oracle.Oracle, path string) error {
	so, ok := oc.(*spatial.Oracle)
	if !ok {
		return fmt.Errorf("--dump-index-geojson requires the real spatial oracle, not --mock-oracle")
	}
	if err := os.WriteFile(path, []byte(so.DebugIndexGeoJSON()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("wrote spatial index GeoJSON to %s", path)
	return nil
}

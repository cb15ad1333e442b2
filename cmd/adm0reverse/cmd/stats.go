package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skibsted/adm0reverse/builder"
	"github.com/skibsted/adm0reverse/quantize"
)

var statsFlags struct {
	precision  int
	mockOracle string
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Build a tree against a mock oracle and report its shape",
	RunE:  runStats,
}

func init() {
	f := statsCmd.Flags()
	f.IntVarP(&statsFlags.precision, "precision", "p", 2, "decimal precision")
	f.StringVar(&statsFlags.mockOracle, "mock-oracle", "rectangle", "mock oracle to build against: rectangle|circle|hemisphere|grid")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	oc, err := mockOracleByName(statsFlags.mockOracle, statsFlags.precision)
	if err != nil {
		return err
	}

	cfg := builder.DefaultConfig(statsFlags.precision)
	tr, stats, err := builder.Build(context.Background(), oc, cfg, nil)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	maxIlon, maxIlat := quantize.GridDimensions(statsFlags.precision)
	fmt.Printf("precision:          %d\n", statsFlags.precision)
	fmt.Printf("grid:               %d x %d\n", maxIlon+1, maxIlat+1)
	fmt.Printf("node_count:         %d\n", tr.NodeCount())
	fmt.Printf("leaf_count:         %d\n", tr.LeafCount())
	fmt.Printf("depth:              %d\n", tr.Depth())
	fmt.Printf("oracle_calls:       %d\n", stats.OracleCalls)
	fmt.Printf("sampling_mixed:     %d\n", stats.SamplingDetectedMixed)
	fmt.Printf("brute_force_mixed:  %d\n", stats.BruteForceDetectedMixed)
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skibsted/adm0reverse/builder"
	"github.com/skibsted/adm0reverse/codegen"
	"github.com/skibsted/adm0reverse/oracle"
)

var testFlags struct {
	precision  int
	mockOracle string
	output     string
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Generate a small Go source file from a mock oracle, for smoke testing",
	RunE:  runTest,
}

func init() {
	f := testCmd.Flags()
	f.IntVarP(&testFlags.precision, "precision", "p", 0, "decimal precision")
	f.StringVar(&testFlags.mockOracle, "mock-oracle", "rectangle", "mock oracle to build against: rectangle|circle|hemisphere|grid")
	f.StringVarP(&testFlags.output, "output", "o", "test_lookup.go", "output file path")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	oc, err := mockOracleByName(testFlags.mockOracle, testFlags.precision)
	if err != nil {
		return err
	}

	cfg := builder.DefaultConfig(testFlags.precision)
	tr, _, err := builder.Build(context.Background(), oc, cfg, logger)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	artifact, err := codegen.BuildArtifact("adm0test", tr, oc.CountryCodes(), 3, false)
	if err != nil {
		return fmt.Errorf("building artifact: %w", err)
	}
	src, err := codegen.GenerateGo(artifact)
	if err != nil {
		return fmt.Errorf("generating source: %w", err)
	}

	if err := os.WriteFile(testFlags.output, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", testFlags.output, err)
	}
	logger.Info("wrote %s", testFlags.output)
	return nil
}

func mockOracleByName(name string, precision int) (oracle.Oracle, error) {
	switch name {
	case "rectangle":
		return oracle.NewRectangleOracle(precision), nil
	case "circle":
		return oracle.NewCircleOracle(precision), nil
	case "hemisphere":
		return oracle.NewHemisphereOracle(precision), nil
	case "grid":
		return oracle.NewGridOracle(precision, 8), nil
	default:
		return nil, fmt.Errorf("unknown mock oracle %q", name)
	}
}

// Package cmd holds the adm0reverse command surface: build/stats/test
// subcommands over cobra. The global --verbose flag is bound through viper,
// so it can also be set with the ADM0REVERSE_VERBOSE environment variable;
// subcommand flags are read from the command line only, and no config file
// is read.
// Grounded on junjiewwang-perf-analysis's cmd/cli/cmd package layout
// (persistent global flags, a package-level rootCmd, one file per
// subcommand).
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skibsted/adm0reverse/internal/buildlog"
)

var (
	verbose bool
	logger  *buildlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "adm0reverse",
	Short: "Build and inspect sparse region quadtrees for country lookup",
	Long: `adm0reverse drives a prove-or-split quadtree builder against a
country classifier oracle and emits the result as a compact binary tree,
embeddable directly in generated Go source.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := buildlog.Info
		if viper.GetBool("verbose") {
			level = buildlog.Debug
		}
		logger = buildlog.NewStderrPeriodic(level, 5*time.Second)
	},
}

// Execute runs the root command; main's only job is to report its error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix("ADM0REVERSE")
	viper.AutomaticEnv()
}

// Package cli implements the curved command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/curvefoundry/curved/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "curved",
	Short: "curved - bonding-curve pool ledger",
	Long: `curved runs a single-node ledger for constant-product bonding-curve
pools: pool creation, buys, sells and liquidity management, with
persistent state and a queryable trade history.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}

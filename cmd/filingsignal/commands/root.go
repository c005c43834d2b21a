package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile   string
	env          string
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "filingsignal",
	Short: "Filing-driven signal generation and buffered backtesting",
	Long: `filingsignal CLI

Turns regulatory filing text into trading signals and simulates them
against historical prices with a no-look-ahead execution buffer.

Usage:
  go run ./cmd/filingsignal [command]

Examples:
  go run ./cmd/filingsignal analyze filing.txt --ticker AAPL
  go run ./cmd/filingsignal signal filing.txt --ticker AAPL
  go run ./cmd/filingsignal backtest run --signals signals.json --from 2024-01-02 --to 2024-06-28
  go run ./cmd/filingsignal ingest AAPL
  go run ./cmd/filingsignal api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default is built-in strategy)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

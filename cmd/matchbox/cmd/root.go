package cmd

import (
	"fmt"

	"github.com/solatis/matchbox/internal/config"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	configFile string
	outputMode string
)

var rootCmd = &cobra.Command{
	Use:     "matchbox",
	Short:   "Matchbox operator expression engine",
	Long:    `Matchbox compiles typed comparisons into reusable predicates for in-process evaluation and SQL translation.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&outputMode, "output", "text", "output format (text, json)")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads configuration and applies persistent flag overrides.
// Precedence: flags, then environment, then config file, then defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputMode
	}
	return cfg, nil
}

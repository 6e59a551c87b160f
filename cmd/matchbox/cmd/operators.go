package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/solatis/matchbox"
	"github.com/spf13/cobra"
)

var operatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "List registered operator symbols and their families",
	RunE:  runOperators,
}

func init() {
	rootCmd.AddCommand(operatorsCmd)
}

type operatorEntry struct {
	Symbol string `json:"symbol"`
	Family string `json:"family"`
}

func runOperators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := matchbox.Default()
	entries := make([]operatorEntry, 0, 16)
	for _, symbol := range registry.Symbols() {
		op, err := registry.FromSymbol(symbol)
		if err != nil {
			return err
		}
		entries = append(entries, operatorEntry{Symbol: symbol, Family: matchbox.Family(op)})
	}

	if cfg.Output == "json" {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}
	for _, e := range entries {
		fmt.Printf("%-24s %s\n", e.Symbol, e.Family)
	}
	return nil
}

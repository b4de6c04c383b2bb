package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfwise/pricescan/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pricescan",
	Short: "Turn a product label photo into a unit price",
	Long:  "Extracts price, weight, and product name from a label photo via an AI vision model, normalizes units, and computes the price per kilogram or liter.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

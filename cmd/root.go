package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/housing-cli/internal/config"
	"github.com/sells-group/housing-cli/internal/refdata"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "housing-cli",
	Short: "Housing price estimation service",
	Long:  "Serves county-level housing price predictions: assembles model feature vectors from county median statistics and user inputs, scores them against the trained regressor, and returns boundary geometry for map display.",
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

// openStore opens the configured reference data backend.
func openStore(ctx context.Context) (refdata.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return refdata.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return refdata.NewSQLite(cfg.Store.DatabaseURL)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

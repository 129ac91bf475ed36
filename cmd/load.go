package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/housing-cli/internal/ingest"
)

var (
	loadMedians   string
	loadShapefile string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import county reference data into the store",
	Long: `Imports the artifacts produced by the offline preparation pipeline:
the per-county median workbook (required) and the county boundary
shapefile (optional, enables map highlighting).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		log := zap.L().With(zap.String("command", "load"))
		log.Info("starting reference data load",
			zap.String("medians", loadMedians),
			zap.String("shapefile", loadShapefile),
		)

		res, err := ingest.Load(ctx, store, ingest.Options{
			MediansPath:   loadMedians,
			ShapefilePath: loadShapefile,
		})
		if err != nil {
			return eris.Wrap(err, "load")
		}

		fmt.Printf("Loaded %d counties (%d with boundaries)\n", res.Counties, res.WithBoundaries)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadMedians, "medians", "", "path to the per-county median XLSX workbook")
	loadCmd.Flags().StringVar(&loadShapefile, "shapefile", "", "path to the county boundary shapefile (.shp)")
	_ = loadCmd.MarkFlagRequired("medians")
	rootCmd.AddCommand(loadCmd)
}

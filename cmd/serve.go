package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/housing-cli/internal/predictor"
	"github.com/sells-group/housing-cli/internal/refdata"
	"github.com/sells-group/housing-cli/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the prediction form API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		// The snapshot is loaded once and shared read-only across
		// requests for the lifetime of the process.
		snap, err := refdata.LoadSnapshot(ctx, store)
		if err != nil {
			return err
		}

		pred := predictor.NewRESTClient(
			cfg.Model.Endpoint,
			time.Duration(cfg.Model.TimeoutSecs)*time.Second,
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := server.New(snap, pred, cfg.Form)
		return srv.Run(ctx, port)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/housing-cli/internal/feature"
	"github.com/sells-group/housing-cli/internal/predictor"
	"github.com/sells-group/housing-cli/internal/refdata"
)

var (
	predictCounty string
	predictAge    int
	predictIncome float64
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one prediction from the command line",
	Long: `Assembles the feature record for a county and scores it against the
model server. Useful for scripting and smoke-testing a deployment.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := refdata.LoadSnapshot(ctx, store)
		if err != nil {
			return err
		}

		assembler := feature.NewAssembler(snap, cfg.Form)
		rec, _, err := assembler.Assemble(feature.Input{
			County:        predictCounty,
			HousingAge:    predictAge,
			IncomeDisplay: predictIncome,
		})
		if err != nil {
			return eris.Wrap(err, "predict: assemble")
		}

		pred := predictor.NewRESTClient(
			cfg.Model.Endpoint,
			time.Duration(cfg.Model.TimeoutSecs)*time.Second,
		)
		price, err := pred.Predict(ctx, rec)
		if err != nil {
			return eris.Wrap(err, "predict: score")
		}

		fmt.Printf("%s: estimated price US$ %.2f (income bracket %d)\n",
			predictCounty, price, rec.MedianIncomeCat)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictCounty, "county", "", "county name")
	predictCmd.Flags().IntVar(&predictAge, "age", 10, "housing median age")
	predictCmd.Flags().Float64Var(&predictIncome, "income", 45.0, "median income (thousands of US$)")
	_ = predictCmd.MarkFlagRequired("county")
	rootCmd.AddCommand(predictCmd)
}

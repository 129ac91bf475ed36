package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/housing-cli/internal/boundary"
)

var countiesVerbose bool

var countiesCmd = &cobra.Command{
	Use:   "counties",
	Short: "List counties in the reference data store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if !countiesVerbose {
			names, err := store.CountyNames(ctx)
			if err != nil {
				return eris.Wrap(err, "counties")
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		}

		counties, err := store.ListCounties(ctx)
		if err != nil {
			return eris.Wrap(err, "counties")
		}

		fmt.Printf("%-25s %10s %10s %12s %12s %-12s %5s\n",
			"Name", "Longitude", "Latitude", "Population", "Households", "Proximity", "Rings")
		for _, c := range counties {
			rings, err := boundary.Rings(c.Name, c.Geometry)
			if err != nil {
				return eris.Wrapf(err, "counties: boundary for %s", c.Name)
			}
			fmt.Printf("%-25s %10.4f %10.4f %12.0f %12.0f %-12s %5d\n",
				c.Name, c.Longitude, c.Latitude, c.Population, c.Households,
				c.OceanProximity, len(rings))
		}
		return nil
	},
}

func init() {
	countiesCmd.Flags().BoolVar(&countiesVerbose, "verbose", false, "show summary statistics and boundary ring counts")
	rootCmd.AddCommand(countiesCmd)
}

package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh-counts",
	Short: "Recount the ETFs of every category once",
	RunE: func(cmd *cobra.Command, args []string) error {

		conf, stg, cache, closeAll, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeAll()

		agg, err := newAggregator(conf, stg, cache)
		if err != nil {
			return err
		}

		n, err := agg.RefreshCategoryCounts(cmd.Context())
		if err != nil {
			return err
		}
		log.Info().Int64("categories", n).Msg("category counts refreshed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

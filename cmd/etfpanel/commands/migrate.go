package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the category, user_info and user_collection tables",
	RunE: func(cmd *cobra.Command, args []string) error {

		_, stg, _, closeAll, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeAll()

		if err := stg.Migrate(); err != nil {
			return err
		}
		log.Info().Msg("migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

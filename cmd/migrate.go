package cmd

import (
	"recipe-blog-cms/config"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.InitDB(cfg.Database)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}
		logger.Info("migrations applied", "driver", cfg.Database.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

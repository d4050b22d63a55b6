package cmd

import (
	"fmt"

	"recipe-blog-cms/config"
	"recipe-blog-cms/seed"

	"github.com/spf13/cobra"
)

var seedOpts seed.Options

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample categories, recipes and posts into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.InitDB(cfg.Database)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}
		summary, err := seed.Run(cmd.Context(), db, seedOpts, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d tags, %d recipes, %d posts\n",
			summary.Categories, summary.Tags, summary.Recipes, summary.Posts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedOpts.AdminEmail, "admin-email", "", "create an admin account with this email")
	seedCmd.Flags().StringVar(&seedOpts.AdminPassword, "admin-password", "", "password for the admin account")
}

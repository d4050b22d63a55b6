package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"recipe-blog-cms/client"
	"recipe-blog-cms/config"

	"github.com/spf13/cobra"
)

var (
	cfg     config.Config
	logger  *slog.Logger
	apiURL  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "recipe-blog-cms",
	Short: "Recipe blog server and command line client",
	Long: `Runs the recipe blog API and talks to a running instance.

	recipe-blog-cms server
	recipe-blog-cms recipes search -q chicken --difficulty Easy
	recipe-blog-cms admin stats --email admin@example.com --password ...
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		if apiURL == "" {
			apiURL = cfg.APIURL
		}
		return nil
	},
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "base URL of a running API (defaults to API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func newClient() *client.Client {
	return client.New(apiURL, client.WithLogger(logger))
}

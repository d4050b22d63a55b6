package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-blog-cms/config"
	"recipe-blog-cms/handlers"
	"recipe-blog-cms/helper"
	"recipe-blog-cms/identity"
	"recipe-blog-cms/mailer"
	"recipe-blog-cms/services"
	"recipe-blog-cms/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverMigrate bool

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the recipe blog API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := config.InitDB(cfg.Database)
		if err != nil {
			return err
		}
		if serverMigrate {
			if err := config.Migrate(db); err != nil {
				return err
			}
		}

		images, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("init image storage: %w", err)
		}

		registry := services.NewRegistry(db, services.RegistryOptions{
			Tokens: identity.NewTokenIssuer(cfg.JWT),
			Images: images,
			Mail:   mailer.New(cfg.Mail, logger),
			AppURL: cfg.Mail.AppURL,
			Logger: logger,
		})

		gin.SetMode(gin.ReleaseMode)
		router := handlers.NewRouter(registry, helper.NewHTTPHelper(), handlers.RouterOptions{
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			Logging:            verbose,
		})

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", "port", cfg.Port, "driver", cfg.Database.Driver)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().BoolVar(&serverMigrate, "migrate", true, "run schema migrations before serving")
}

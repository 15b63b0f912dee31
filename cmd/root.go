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

	"Gin_postgres_redis_asset_tool/app"
	"Gin_postgres_redis_asset_tool/config"
	"Gin_postgres_redis_asset_tool/db"
	"Gin_postgres_redis_asset_tool/logger"
	"Gin_postgres_redis_asset_tool/routes"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env")
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		log := logger.Must(logger.New(cfg.Env))
		defer func() { _ = log.Sync() }()
		zap.ReplaceGlobals(log)

		application, err := app.New(cfg, log)
		if err != nil {
			return fmt.Errorf("init app: %w", err)
		}
		defer application.Close()

		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate && application.DB != nil {
			if err := db.Migrate(application.DB); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
		}
		routes.RegisterRoutes(application.Router, application)

		return serve(cmd.Context(), application, log)
	},
}

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations manually.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env")
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		log := logger.Must(logger.New(cfg.Env))
		defer func() { _ = log.Sync() }()

		conn, err := db.ConnectDB(app.DatabaseURL(cfg), log.Named("db"))
		if err != nil {
			return err
		}
		if err := db.Migrate(conn); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		log.Info("migrations applied")
		return nil
	},
}

func serve(ctx context.Context, a *app.App, log *zap.Logger) error {
	srv := &http.Server{
		Addr:         ":" + a.Config.Server.Port,
		Handler:      a.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server crashed: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:   "assetd",
		Short: "Asset lifecycle service",
	}
	rootCmd.PersistentFlags().String("env", "", "Path to an .env file")
	ServeCmd.Flags().Bool("migrate", false, "Run migrations before serving")
	rootCmd.AddCommand(ServeCmd, MigrateCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

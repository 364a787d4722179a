// Command server runs the stylist API.
//
//	server serve     start the HTTP server (default)
//	server migrate   create or update the database schema and exit
//
// Configuration comes from the environment; a .env file in the working
// directory is loaded first when present.
//
// @title          Stylist API
// @version        1.0
// @description    Men's style advisor: chats, stylist turns with optional outfit images and virtual try-on, style profiles and a style catalog.
// @BasePath       /api/v1
// @schemes        http https
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	_ "github.com/tbourn/go-stylist-backend/docs"
	"github.com/tbourn/go-stylist-backend/internal/config"
	"github.com/tbourn/go-stylist-backend/internal/repo"
	"github.com/tbourn/go-stylist-backend/internal/sysutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "server",
		Short:         "Men's style advisor backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			sysutil.ConfigureLogging(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configFrom(cmd.Context()))
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configFrom(cmd.Context()))
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(configFrom(cmd.Context()))
		},
	})
	return root
}

// loadEnv reads path into the environment without overriding variables that
// are already set. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func migrate(cfg config.Config) error {
	db, err := repo.OpenSQLite(cfg.DBPath, repo.Options{})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("db", cfg.DBPath).Msg("schema up to date")
	return nil
}

type configKey struct{}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) config.Config {
	cfg, _ := ctx.Value(configKey{}).(config.Config)
	return cfg
}

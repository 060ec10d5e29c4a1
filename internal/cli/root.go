// Package cli wires the seeder commands: seed, stream, stats, version.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"userseed/internal/config"
	"userseed/internal/core"
	"userseed/internal/database"
	"userseed/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "seeder",
	Short:         "Seed and stream user data in Postgres",
	Long:          "seeder creates the user_data schema, imports users from CSV files,\nand streams persisted rows back out without materializing the table.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(seedCmd, streamCmd, statsCmd, versionCmd)
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// withService loads config, configures logging, opens the database pool,
// and hands a ready Service to fn. The pool is closed on every exit path.
func withService(fn func(ctx context.Context, cfg *config.Config, svc *core.Service) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.CreateDatabase {
		if err := database.EnsureDatabase(ctx, cfg.Database.URL); err != nil {
			return err
		}
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := core.NewService(database.NewStore(pool), slog.Default())
	return fn(ctx, cfg, svc)
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"userseed/internal/config"
	"userseed/internal/core"
	"userseed/internal/csv"
	"userseed/internal/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed [csv-file]",
	Short: "Create the schema and import users from a CSV file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, cfg *config.Config, svc *core.Service) error {
		path := cfg.Seed.CSVPath
		if len(args) > 0 {
			path = args[0]
		}
		log := logging.WithFields("file", path)

		if err := svc.EnsureSchema(ctx); err != nil {
			return err
		}

		src, err := csv.OpenFile(path)
		if err != nil {
			return err
		}
		defer src.Close()

		stats, err := svc.ImportFromSource(ctx, src)
		if err != nil {
			return err
		}

		total, err := svc.CountRows(ctx)
		if err != nil {
			return err
		}
		log.Info("seeding complete",
			"inserted", stats.Inserted,
			"skipped", stats.Skipped,
			"rejected", stats.Rejected,
			"table_rows", total,
		)
		return nil
	})
}

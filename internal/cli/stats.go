package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"userseed/internal/config"
	"userseed/internal/core"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate statistics over the user_data table",
	Long:  "The average age is computed by streaming ages one row at a time,\nnever holding the full table in memory.",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, cfg *config.Config, svc *core.Service) error {
		total, err := svc.CountRows(ctx)
		if err != nil {
			return err
		}
		avg, err := svc.AverageAge(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Users: %d\n", total)
		fmt.Printf("Average age of users: %.2f\n", avg)
		return nil
	})
}

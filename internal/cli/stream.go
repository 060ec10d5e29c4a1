package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"userseed/internal/config"
	"userseed/internal/core"
)

var (
	streamMinAge int
	streamLimit  int
	streamPaged  bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream persisted users to stdout as JSON lines",
	Long:  "Rows are fetched lazily, one at a time (or one page at a time with\n--paged), so memory stays bounded regardless of table size.",
	Args:  cobra.NoArgs,
	RunE:  runStream,
}

func init() {
	streamCmd.Flags().IntVar(&streamMinAge, "min-age", 0, "only emit users older than this age")
	streamCmd.Flags().IntVar(&streamLimit, "limit", 0, "stop after this many rows (0 = all)")
	streamCmd.Flags().BoolVar(&streamPaged, "paged", false, "fetch via lazy LIMIT/OFFSET pagination")
}

func runStream(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, cfg *config.Config, svc *core.Service) error {
		enc := json.NewEncoder(os.Stdout)
		emitted := 0

		emit := func(rec core.UserRecord) (bool, error) {
			if streamMinAge > 0 && rec.Age <= streamMinAge {
				return true, nil
			}
			if err := enc.Encode(rec); err != nil {
				return false, err
			}
			emitted++
			return streamLimit == 0 || emitted < streamLimit, nil
		}

		if streamPaged {
			pages := svc.Pages(ctx, cfg.Seed.PageSize)
			for pages.Next() {
				for _, rec := range pages.Page() {
					ok, err := emit(rec)
					if err != nil || !ok {
						return err
					}
				}
			}
			return pages.Err()
		}

		rows, err := svc.StreamRows(ctx)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			ok, err := emit(rows.Record())
			if err != nil || !ok {
				return err
			}
		}
		return rows.Err()
	})
}

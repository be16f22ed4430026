package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRecentCmd() *cobra.Command {
	var hours int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show records finished within the trailing window",
		RunE: func(c *cobra.Command, _ []string) error {
			container, err := newContainer(c.OutOrStdout())
			if err != nil {
				return err
			}
			defer container.Close()

			window := container.RecentWindow()
			if hours > 0 {
				window = time.Duration(hours) * time.Hour
			}

			records, err := container.GetRecordRepository().Recent(c.Context(), window)
			if err != nil {
				return fmt.Errorf("recent query failed: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintf(c.OutOrStdout(), "За последние %d ч записей нет.\n", int(window.Hours()))
				return nil
			}

			p := container.GetPresenter()
			for i := range records {
				p.ShowRecord(&records[i], i, len(records), false)
				fmt.Fprintln(c.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 0, "Override the window in hours (default: from configuration)")
	return cmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [phrase]",
		Short: "Search fault records by phrase (read-only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			container, err := newContainer(c.OutOrStdout())
			if err != nil {
				return err
			}
			defer container.Close()

			phrase := ""
			if len(args) > 0 {
				phrase = strings.TrimSpace(args[0])
			}

			records, err := container.GetRecordRepository().Search(c.Context(), phrase)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintf(c.OutOrStdout(), "По запросу '%s' ничего не найдено.\n", phrase)
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
	return cmd
}

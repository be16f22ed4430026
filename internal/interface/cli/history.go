package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vkarpenko/faultlog/internal/domain/repository"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <record-id>",
		Short: "Show the edit trail of one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			recordID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}

			container, err := newContainer(c.OutOrStdout())
			if err != nil {
				return err
			}
			defer container.Close()

			if _, err := container.GetRecordRepository().FindByID(c.Context(), recordID); err != nil {
				if errors.Is(err, repository.ErrRecordNotFound) {
					return fmt.Errorf("record %d does not exist", recordID)
				}
				return err
			}

			events, err := container.GetEditLogRepository().FindByRecordID(c.Context(), recordID)
			if err != nil {
				return fmt.Errorf("failed to read edit trail: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintf(c.OutOrStdout(), "Заявка #%d не редактировалась.\n", recordID)
				return nil
			}

			fmt.Fprintf(c.OutOrStdout(), "История изменений заявки #%d:\n", recordID)
			for _, e := range events {
				fmt.Fprintf(c.OutOrStdout(), "%s  %s: %q -> %q (пользователь %d)\n",
					e.ChangedAt.Local().Format("02.01.2006 15:04"),
					e.Field.Label(), e.OldValue, e.NewValue, e.EditorID)
			}
			return nil
		},
	}
	return cmd
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vkarpenko/faultlog/internal/domain/model/record"
)

const timeLayout = "02.01.2006 15:04"

func newAddCmd() *cobra.Command {
	var (
		userID int64
		rec    record.Record
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new fault record",
		RunE: func(c *cobra.Command, _ []string) error {
			container, err := newContainer(c.OutOrStdout())
			if err != nil {
				return err
			}
			defer container.Close()

			if !container.GetAccessRepository().RoleOf(userID).Exists() {
				return fmt.Errorf("user %d is not in the access roster", userID)
			}

			rec.UserID = userID
			if rec.Date == "" {
				rec.Date = time.Now().Format("02.01.2006")
			}
			if rec.Duration == "" {
				rec.Duration = computeDuration(rec.StartTime, rec.EndTime)
			}

			if err := container.GetRecordRepository().Save(c.Context(), &rec); err != nil {
				return fmt.Errorf("failed to save record: %w", err)
			}

			fmt.Fprintf(c.OutOrStdout(), "Заявка #%d сохранена.\n", rec.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "ID of the reporting user")
	cmd.Flags().StringVar(&rec.Date, "date", "", "Report date, dd.mm.yyyy (default: today)")
	cmd.Flags().StringVar(&rec.Workers, "workers", "", "Workers assigned to the fault")
	cmd.Flags().StringVar(&rec.Machine, "machine", "", "Machine name")
	cmd.Flags().StringVar(&rec.Shop, "shop", "", "Shop floor")
	cmd.Flags().StringVar(&rec.InventoryNumber, "inventory", "", "Machine inventory number")
	cmd.Flags().StringVar(&rec.StartTime, "start", "", "Work start, dd.mm.yyyy hh:mm")
	cmd.Flags().StringVar(&rec.EndTime, "end", "", "Work end, dd.mm.yyyy hh:mm")
	cmd.Flags().StringVar(&rec.Duration, "duration", "", "Time spent (default: computed from start/end)")
	cmd.Flags().StringVar(&rec.Description, "description", "", "Fault description")
	cmd.Flags().StringVar(&rec.Solution, "solution", "", "Applied solution")
	cmd.Flags().StringVar(&rec.Status, "status", "", "Fault status")

	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("machine")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

// computeDuration renders the elapsed time between two timestamps, or an
// empty string when either side is missing or malformed.
func computeDuration(start, end string) string {
	from, err := time.ParseInLocation(timeLayout, start, time.Local)
	if err != nil {
		return ""
	}
	to, err := time.ParseInLocation(timeLayout, end, time.Local)
	if err != nil || to.Before(from) {
		return ""
	}
	d := to.Sub(from)
	return fmt.Sprintf("%d ч %d мин", int(d.Hours()), int(d.Minutes())%60)
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const settingTemplate = `{
  "db_path": "faultlog.db",
  "access_file": "access_user.json",
  "recent_hours": 24
}
`

const accessTemplate = `{
  "main_admins": [],
  "admins": [],
  "users": []
}
`

func newInitCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the fault-log database and configuration skeleton",
		RunE: func(c *cobra.Command, _ []string) error {
			if dir == "" {
				dir = "."
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}

			if err := writeIfNotExists(filepath.Join(dir, "setting.json"), []byte(settingTemplate)); err != nil {
				return fmt.Errorf("failed to create setting.json: %w", err)
			}
			if err := writeIfNotExists(filepath.Join(dir, "access_user.json"), []byte(accessTemplate)); err != nil {
				return fmt.Errorf("failed to create access_user.json: %w", err)
			}

			// Opening the container applies the schema migrations.
			container, err := newContainer(c.OutOrStdout())
			if err != nil {
				return err
			}
			defer container.Close()

			fmt.Fprintf(c.OutOrStdout(), "Initialized fault log in %s (database: %s)\n", dir, globalConfig.DBPath())
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Target directory (default: current)")
	return cmd
}

// writeIfNotExists writes the file only when it is absent, so re-running
// init never clobbers an edited configuration.
func writeIfNotExists(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

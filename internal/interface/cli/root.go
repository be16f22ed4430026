package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vkarpenko/faultlog/internal/app/config"
	"github.com/vkarpenko/faultlog/internal/buildinfo"
	infraConfig "github.com/vkarpenko/faultlog/internal/infra/config"
)

// globalConfig holds the loaded configuration for all commands
var globalConfig config.Config

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "faultlog",
		Short:   "Maintenance fault-log assistant",
		Version: buildinfo.GetVersion(),
		Long:    "faultlog keeps a machine-fault journal and runs interactive search-and-edit sessions over it.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration before any command runs
			// Priority: setting.json > ENV > defaults
			baseDir := "."
			if home := os.Getenv("FAULTLOG_HOME"); home != "" {
				baseDir = home
			}

			cfg, err := infraConfig.LoadSettings(baseDir)
			if err != nil {
				return err
			}
			globalConfig = cfg
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newRecentCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newSessionCmd())
	return cmd
}

package stats

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chronos-gpu/chronos/internal/app"
	cmdflags "github.com/chronos-gpu/chronos/internal/command/flags"
	"github.com/chronos-gpu/chronos/internal/config"
)

// NewCommand returns the stats subcommand.
func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-device memory statistics",
		PreRunE: func(c *cobra.Command, _ []string) error {
			cmdflags.BindCommandToViper(c)

			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return run(cfg)
		},
	}

	cmdflags.AddManagerFlagsToCommand(cmd, cfg)

	return cmd
}

func run(cfg *config.Config) error {
	manager, err := app.NewManager(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = manager.Close()
	}()

	manager.WriteDeviceStats(os.Stdout)

	return nil
}

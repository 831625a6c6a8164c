package release

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronos-gpu/chronos/internal/app"
	cmdflags "github.com/chronos-gpu/chronos/internal/command/flags"
	"github.com/chronos-gpu/chronos/internal/config"
)

// NewCommand returns the release subcommand.
func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release <partition-id>",
		Short: "Release a partition early",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, _ []string) error {
			cmdflags.BindCommandToViper(c)

			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			return run(cfg, args[0])
		},
	}

	cmdflags.AddManagerFlagsToCommand(cmd, cfg)

	return cmd
}

func run(cfg *config.Config, partitionID string) error {
	manager, err := app.NewManager(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = manager.Close()
	}()

	if err := manager.ReleasePartition(partitionID); err != nil {
		return err
	}

	fmt.Printf("Partition %s released\n", partitionID)

	return nil
}

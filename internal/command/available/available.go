package available

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chronos-gpu/chronos/internal/app"
	cmdflags "github.com/chronos-gpu/chronos/internal/command/flags"
	"github.com/chronos-gpu/chronos/internal/config"
	cerrors "github.com/chronos-gpu/chronos/pkg/errors"
)

// NewCommand returns the available subcommand.
func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "available <device-index>",
		Short: "Print the percentage of device memory still available",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, _ []string) error {
			cmdflags.BindCommandToViper(c)

			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			deviceIdx, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("device index must be numeric: %w", err)
			}

			return run(cfg, deviceIdx)
		},
	}

	cmdflags.AddManagerFlagsToCommand(cmd, cfg)

	return cmd
}

func run(cfg *config.Config, deviceIdx int) error {
	manager, err := app.NewManager(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = manager.Close()
	}()

	percent := manager.AvailablePercentage(deviceIdx)
	if percent < 0 {
		return cerrors.ErrInvalidDeviceIndex
	}

	fmt.Printf("%.2f\n", percent)

	return nil
}

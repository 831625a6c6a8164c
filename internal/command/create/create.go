package create

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronos-gpu/chronos/internal/app"
	cmdflags "github.com/chronos-gpu/chronos/internal/command/flags"
	"github.com/chronos-gpu/chronos/internal/config"
)

// NewCommand returns the create subcommand.
func NewCommand(cfg *config.Config) *cobra.Command {
	var (
		deviceIdx int
		fraction  float64
		duration  time.Duration
		wait      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a time-bounded partition on a device",
		PreRunE: func(c *cobra.Command, _ []string) error {
			cmdflags.BindCommandToViper(c)

			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return run(cfg, deviceIdx, fraction, duration, wait)
		},
	}

	cmd.Flags().IntVar(&deviceIdx, "device", 0, "Index of the device to partition.")
	cmd.Flags().Float64Var(&fraction, "fraction", 0, "Fraction of device memory to lease, in (0, 1].")
	cmd.Flags().DurationVar(&duration, "duration", 0, "How long the partition should live, e.g. 90s or 5m.")
	cmd.Flags().BoolVar(&wait, "wait", false,
		"Hold the partition until it expires. Without this the partition is released again on exit.")
	cmdflags.AddManagerFlagsToCommand(cmd, cfg)

	return cmd
}

func run(cfg *config.Config, deviceIdx int, fraction float64, duration time.Duration, wait bool) error {
	manager, err := app.NewManager(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = manager.Close()
	}()

	id, err := manager.CreatePartition(deviceIdx, fraction, duration)
	if err != nil {
		return err
	}

	fmt.Println(id)

	if wait {
		time.Sleep(duration)
	}

	return nil
}

package locks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cmdflags "github.com/chronos-gpu/chronos/internal/command/flags"
	"github.com/chronos-gpu/chronos/internal/config"
	"github.com/chronos-gpu/chronos/pkg/lockfile"
)

// NewCommand returns the locks subcommand, an operator tool for inspecting
// and clearing lock files. The lock protocol never garbage-collects a lock
// left behind by a crashed owner; this is the manual remedy.
func NewCommand(cfg *config.Config) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "locks",
		Short: "Inspect or clear partition lock files",
		PreRunE: func(c *cobra.Command, _ []string) error {
			cmdflags.BindCommandToViper(c)

			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return run(cfg, clear)
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Delete every lock file in the lock directory.")
	cmdflags.AddManagerFlagsToCommand(cmd, cfg)

	return cmd
}

func run(cfg *config.Config, clear bool) error {
	entries, err := os.ReadDir(cfg.LockDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No lock files")

			return nil
		}

		return fmt.Errorf("reading lock directory %s: %w", cfg.LockDir, err)
	}

	found := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lock") {
			continue
		}

		found++
		path := filepath.Join(cfg.LockDir, entry.Name())

		if clear {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing %s: %w", path, err)
			}

			fmt.Printf("Removed %s\n", entry.Name())

			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		meta, err := lockfile.ParseMeta(content)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.Name(), err)
		}

		fmt.Printf("%s\n", entry.Name())
		fmt.Printf("  Partition: %s\n", meta.Partition)
		fmt.Printf("  Owner: %s (PID: %d) on %s\n", meta.User, meta.PID, meta.Host)
		fmt.Printf("  Created: %s\n", meta.Time)
	}

	if found == 0 {
		fmt.Println("No lock files")
	}

	return nil
}

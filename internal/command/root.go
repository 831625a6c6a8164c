package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chronos-gpu/chronos/internal/command/available"
	"github.com/chronos-gpu/chronos/internal/command/create"
	cmdflags "github.com/chronos-gpu/chronos/internal/command/flags"
	"github.com/chronos-gpu/chronos/internal/command/list"
	"github.com/chronos-gpu/chronos/internal/command/locks"
	"github.com/chronos-gpu/chronos/internal/command/release"
	"github.com/chronos-gpu/chronos/internal/command/stats"
	"github.com/chronos-gpu/chronos/internal/config"
	"github.com/chronos-gpu/chronos/internal/version"
	"github.com/chronos-gpu/chronos/pkg/defaults"
	"github.com/chronos-gpu/chronos/pkg/log"
)

// NewRootCommand builds the chronos command tree.
func NewRootCommand() (*cobra.Command, error) {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "chronos",
		Short: "Chronos - time-bounded GPU partition manager",
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			cmdflags.BindCommandToViper(c)

			if err := log.Configure(&cfg.Logging); err != nil {
				return fmt.Errorf("configuring logging: %w", err)
			}

			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}

	log.AddFlagsToCommand(cmd, &cfg.Logging)

	addRootSubCommands(cmd, cfg)

	cobra.OnInitialize(initCobra)

	return cmd, nil
}

func initCobra() {
	viper.SetEnvPrefix("CHRONOS")
	viper.AutomaticEnv()
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.AddConfigPath(defaults.ConfigurationDir)
	viper.AddConfigPath("$HOME/.config/chronos/")

	_ = viper.ReadInConfig()
}

func addRootSubCommands(cmd *cobra.Command, cfg *config.Config) {
	cmd.AddCommand(create.NewCommand(cfg))
	cmd.AddCommand(list.NewCommand(cfg))
	cmd.AddCommand(release.NewCommand(cfg))
	cmd.AddCommand(stats.NewCommand(cfg))
	cmd.AddCommand(available.NewCommand(cfg))
	cmd.AddCommand(locks.NewCommand(cfg))
	cmd.AddCommand(versionCommand())
}

func versionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of chronos",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				long, short bool
				err         error
			)

			if long, err = cmd.Flags().GetBool("long"); err != nil {
				return err
			}

			if short, err = cmd.Flags().GetBool("short"); err != nil {
				return err
			}

			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)

				return nil
			}

			if long {
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"%s\n  Version:    %s\n  CommitHash: %s\n  BuildDate:  %s\n",
					version.PackageName,
					version.Version,
					version.CommitHash,
					version.BuildDate,
				)

				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.PackageName, version.Version)

			return nil
		},
	}

	_ = cmd.Flags().Bool("long", false, "Print long version information")
	_ = cmd.Flags().Bool("short", false, "Print short version information")

	return cmd
}

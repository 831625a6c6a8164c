package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chronos-gpu/chronos/internal/config"
	"github.com/chronos-gpu/chronos/pkg/defaults"
)

const (
	configFileFlag   = "config"
	lockDirFlag      = "lock-dir"
	monitorTickFlag  = "monitor-tick"
	deviceSourceFlag = "device-source"
)

// AddManagerFlagsToCommand adds the partition manager flags to the command.
func AddManagerFlagsToCommand(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.ConfigFile,
		configFileFlag,
		"",
		"Path to a chronos YAML configuration file.")

	cmd.Flags().StringVar(&cfg.LockDir,
		lockDirFlag,
		defaults.LockDir,
		"The directory used for cross-process partition lock files.")

	cmd.Flags().DurationVar(&cfg.MonitorTick,
		monitorTickFlag,
		defaults.MonitorTick,
		"The interval between expiry monitor sweeps.")

	cmd.Flags().StringVar(&cfg.DeviceSource,
		deviceSourceFlag,
		defaults.DeviceSourceNVML,
		"Where to discover devices from. Either 'nvml' or 'static'.")
}

// BindCommandToViper binds the flags of the command to viper so values can
// also come from the environment and any loaded configuration.
func BindCommandToViper(cmd *cobra.Command) {
	bindFlagsToViper(cmd.PersistentFlags())
	bindFlagsToViper(cmd.Flags())
}

func bindFlagsToViper(flagSet *pflag.FlagSet) {
	flagSet.VisitAll(func(flag *pflag.Flag) {
		_ = viper.BindPFlag(flag.Name, flag)
		_ = viper.BindEnv(flag.Name)

		if !flag.Changed && viper.IsSet(flag.Name) {
			_ = flagSet.Set(flag.Name, viper.GetString(flag.Name))
		}
	})
}

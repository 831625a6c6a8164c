package config

import (
	"time"

	"github.com/chronos-gpu/chronos/pkg/log"
)

// Config holds the resolved runtime configuration for the chronos commands.
type Config struct {
	// Logging contains the logging settings.
	Logging log.Config
	// ConfigFile is an optional path to a chronos YAML configuration file.
	ConfigFile string
	// LockDir is the directory used for cross-process partition lock files.
	LockDir string
	// MonitorTick is the interval between expiry monitor sweeps.
	MonitorTick time.Duration
	// DeviceSource selects where devices are discovered from.
	DeviceSource string
}

// Package app builds a partition manager from the resolved command
// configuration, wiring the platform, device source and lock directory
// together.
package app

import (
	"fmt"

	chconfig "github.com/chronos-gpu/chronos/pkg/config"
	"github.com/chronos-gpu/chronos/pkg/defaults"
	"github.com/chronos-gpu/chronos/pkg/device"
	"github.com/chronos-gpu/chronos/pkg/log"
	"github.com/chronos-gpu/chronos/pkg/partition"
	"github.com/chronos-gpu/chronos/pkg/platform"

	"github.com/chronos-gpu/chronos/internal/config"
)

// NewManager builds a partition manager for the given configuration. When a
// config file is supplied it fills in anything the flags left unset.
func NewManager(cfg *config.Config) (*partition.Manager, error) {
	fileCfg := chconfig.NewManager()

	if cfg.ConfigFile != "" {
		if err := fileCfg.LoadFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	if cfg.LockDir == "" {
		cfg.LockDir = fileCfg.GetString(chconfig.KeyLockDirectory, defaults.LockDir)
	}

	if cfg.MonitorTick <= 0 {
		cfg.MonitorTick = fileCfg.GetDuration(chconfig.KeyMonitorTick, defaults.MonitorTick)
	}

	if cfg.DeviceSource == "" {
		cfg.DeviceSource = fileCfg.GetString(chconfig.KeyDeviceSource, defaults.DeviceSourceNVML)
	}

	querier, err := newQuerier(cfg.DeviceSource, fileCfg)
	if err != nil {
		return nil, err
	}

	return partition.New(partition.Config{
		LockDir:     cfg.LockDir,
		MonitorTick: cfg.MonitorTick,
		Logger:      log.GetLogger("manager"),
	}, platform.NewHost(), querier)
}

func newQuerier(source string, fileCfg *chconfig.Manager) (device.Querier, error) {
	switch source {
	case defaults.DeviceSourceNVML:
		return device.NVMLQuerier{}, nil
	case defaults.DeviceSourceStatic:
		specs, err := fileCfg.StaticDevices()
		if err != nil {
			return nil, err
		}

		return device.NewStaticQuerier(specs...), nil
	default:
		return nil, fmt.Errorf("unknown device source: %s", source)
	}
}

package defaults

import "time"

const (
	// LockDir is the default directory for cross-process partition lock files.
	LockDir = "/tmp/chronos_locks"

	// ConfigurationDir is the default directory for chronos configuration.
	ConfigurationDir = "/etc/chronos"

	// DataDirPerm is the permissions to use for data folders.
	DataDirPerm = 0o755

	// DataFilePerm is the permissions to use for data files.
	DataFilePerm = 0o644

	// MonitorTick is the interval between expiry monitor sweeps.
	MonitorTick = time.Second

	// DeviceSourceNVML discovers devices through the NVIDIA management library.
	DeviceSourceNVML = "nvml"

	// DeviceSourceStatic reads devices from the chronos configuration file.
	DeviceSourceStatic = "static"
)

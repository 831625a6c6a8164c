package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-gpu/chronos/pkg/config"
	"github.com/chronos-gpu/chronos/pkg/defaults"
)

func TestDefaults(t *testing.T) {
	m := config.NewManager()

	assert.Equal(t, defaults.LockDir, m.GetString(config.KeyLockDirectory, ""))
	assert.Equal(t, defaults.MonitorTick, m.GetDuration(config.KeyMonitorTick, 0))
	assert.Equal(t, defaults.DeviceSourceNVML, m.GetString(config.KeyDeviceSource, ""))
	assert.Equal(t, "info", m.GetString(config.KeyLoggingLevel, ""))
	assert.True(t, m.GetBool(config.KeyEnforceLimits, false))
}

func TestUnsetKeyFallsBackToCallerDefault(t *testing.T) {
	m := config.NewManager()

	assert.Equal(t, "fallback", m.GetString("core.nonexistent", "fallback"))
	assert.Equal(t, 7, m.GetInt("core.nonexistent", 7))
	assert.InDelta(t, 0.5, m.GetFloat("core.nonexistent", 0.5), 1e-9)
	assert.Equal(t, time.Minute, m.GetDuration("core.nonexistent", time.Minute))
}

func TestLoadString(t *testing.T) {
	m := config.NewManager()

	require.NoError(t, m.LoadString(`
core:
  lock_directory: /var/run/chronos
  monitor_tick: 250ms
  device_source: static
logging:
  level: debug
memory:
  enforce_limits: false
`))

	assert.Equal(t, "/var/run/chronos", m.GetString(config.KeyLockDirectory, ""))
	assert.Equal(t, 250*time.Millisecond, m.GetDuration(config.KeyMonitorTick, 0))
	assert.Equal(t, "static", m.GetString(config.KeyDeviceSource, ""))
	assert.Equal(t, "debug", m.GetString(config.KeyLoggingLevel, ""))
	assert.False(t, m.GetBool(config.KeyEnforceLimits, true))
}

func TestLoadStringInvalidYAML(t *testing.T) {
	m := config.NewManager()

	assert.Error(t, m.LoadString("core: [unclosed"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("core:\n  lock_directory: /opt/locks\n"), 0o644))

	m := config.NewManager()
	require.NoError(t, m.LoadFile(path))

	assert.Equal(t, "/opt/locks", m.GetString(config.KeyLockDirectory, ""))
}

func TestLoadFileMissing(t *testing.T) {
	m := config.NewManager()

	assert.Error(t, m.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CHRONOS_CORE_LOCK_DIRECTORY", "/env/locks")
	t.Setenv("CHRONOS_LOGGING_LEVEL", "trace")

	m := config.NewManager()
	require.NoError(t, m.LoadString("core:\n  lock_directory: /file/locks\n"))

	// Environment wins over file content.
	assert.Equal(t, "/env/locks", m.GetString(config.KeyLockDirectory, ""))
	assert.Equal(t, "trace", m.GetString(config.KeyLoggingLevel, ""))
}

func TestStaticDevices(t *testing.T) {
	m := config.NewManager()

	require.NoError(t, m.LoadString(`
devices:
  - name: Fake GPU A
    vendor: TestVendor
    version: "1.2"
    total_memory: 1073741824
  - name: Fake GPU B
    total_memory: 2147483648
`))

	specs, err := m.StaticDevices()
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "Fake GPU A", specs[0].Name)
	assert.Equal(t, "TestVendor", specs[0].Vendor)
	assert.Equal(t, "1.2", specs[0].Version)
	assert.Equal(t, uint64(1<<30), specs[0].TotalMemory)

	assert.Equal(t, "Fake GPU B", specs[1].Name)
	assert.Equal(t, uint64(2<<30), specs[1].TotalMemory)
}

func TestStaticDevicesUnset(t *testing.T) {
	m := config.NewManager()

	specs, err := m.StaticDevices()
	require.NoError(t, err)
	assert.Empty(t, specs)
}

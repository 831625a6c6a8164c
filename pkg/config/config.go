// Package config loads chronos configuration from YAML with CHRONOS_*
// environment overrides and optional file watching. It only supplies
// startup parameters; partition lifecycle logic never depends on it.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/chronos-gpu/chronos/pkg/defaults"
	"github.com/chronos-gpu/chronos/pkg/device"
)

const envPrefix = "CHRONOS"

// Well-known configuration keys.
const (
	KeyLockDirectory = "core.lock_directory"
	KeyMonitorTick   = "core.monitor_tick"
	KeyDeviceSource  = "core.device_source"
	KeyLoggingLevel  = "logging.level"
	KeyEnforceLimits = "memory.enforce_limits"
	KeyDevices       = "devices"
)

// Manager wraps a viper instance configured for chronos: YAML content,
// CHRONOS_SECTION_KEY environment overrides and chronos defaults.
type Manager struct {
	v *viper.Viper
}

// NewManager returns a manager carrying only defaults and environment
// overrides until a file or string is loaded into it.
func NewManager() *Manager {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	v.SetDefault(KeyLockDirectory, defaults.LockDir)
	v.SetDefault(KeyMonitorTick, defaults.MonitorTick)
	v.SetDefault(KeyDeviceSource, defaults.DeviceSourceNVML)
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyEnforceLimits, true)

	return &Manager{v: v}
}

// LoadFile reads configuration from a YAML file.
func (m *Manager) LoadFile(path string) error {
	m.v.SetConfigFile(path)

	if err := m.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	return nil
}

// LoadString reads configuration from YAML content.
func (m *Manager) LoadString(content string) error {
	if err := m.v.ReadConfig(strings.NewReader(content)); err != nil {
		return fmt.Errorf("reading config content: %w", err)
	}

	return nil
}

// Watch re-reads the file on change and invokes fn with the filesystem
// event. LoadFile must have been called first.
func (m *Manager) Watch(fn func(fsnotify.Event)) {
	m.v.OnConfigChange(fn)
	m.v.WatchConfig()
}

// GetString returns the string at key, or def when the key is unset.
func (m *Manager) GetString(key, def string) string {
	if !m.v.IsSet(key) {
		return def
	}

	return m.v.GetString(key)
}

// GetInt returns the integer at key, or def when the key is unset.
func (m *Manager) GetInt(key string, def int) int {
	if !m.v.IsSet(key) {
		return def
	}

	return m.v.GetInt(key)
}

// GetFloat returns the float at key, or def when the key is unset.
func (m *Manager) GetFloat(key string, def float64) float64 {
	if !m.v.IsSet(key) {
		return def
	}

	return m.v.GetFloat64(key)
}

// GetBool returns the boolean at key, or def when the key is unset.
func (m *Manager) GetBool(key string, def bool) bool {
	if !m.v.IsSet(key) {
		return def
	}

	return m.v.GetBool(key)
}

// GetDuration returns the duration at key, or def when the key is unset.
func (m *Manager) GetDuration(key string, def time.Duration) time.Duration {
	if !m.v.IsSet(key) {
		return def
	}

	return m.v.GetDuration(key)
}

// StaticDevices decodes the configured static device list.
func (m *Manager) StaticDevices() ([]device.StaticSpec, error) {
	var specs []device.StaticSpec

	if err := m.v.UnmarshalKey(KeyDevices, &specs); err != nil {
		return nil, fmt.Errorf("decoding static devices: %w", err)
	}

	return specs, nil
}

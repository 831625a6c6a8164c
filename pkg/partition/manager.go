package partition

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	units "github.com/docker/go-units"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/chronos-gpu/chronos/pkg/defaults"
	"github.com/chronos-gpu/chronos/pkg/device"
	cerrors "github.com/chronos-gpu/chronos/pkg/errors"
	"github.com/chronos-gpu/chronos/pkg/lockfile"
	"github.com/chronos-gpu/chronos/pkg/platform"
)

// Config carries the manager's construction parameters.
type Config struct {
	// LockDir is the directory for cross-process lock files.
	LockDir string
	// MonitorTick is the interval between expiry sweeps.
	MonitorTick time.Duration
	// Logger is the entry to log through. Defaults to the standard logger.
	Logger *logrus.Entry
}

// Manager owns the authoritative list of partitions for this process and
// composes the device registry and the lock protocol to grant, list and
// reclaim them. One mutex guards the partition list and the registry's
// counters together: every check-and-mutate happens as a unit, so no
// failure path leaves partial bookkeeping behind.
type Manager struct {
	mu         sync.Mutex
	registry   *device.Registry
	partitions []Partition
	idCounter  int

	locker *lockfile.Locker
	plat   platform.Platform
	logger *logrus.Entry

	monitorQuit chan struct{}
	monitorDone chan struct{}
	closeOnce   sync.Once
}

// New builds a manager, populates its device registry from the querier and
// starts the expiry monitor.
func New(cfg Config, plat platform.Platform, querier device.Querier) (*Manager, error) {
	if cfg.LockDir == "" {
		cfg.LockDir = defaults.LockDir
	}

	if cfg.MonitorTick <= 0 {
		cfg.MonitorTick = defaults.MonitorTick
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	locker, err := lockfile.New(plat, cfg.LockDir)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		registry:    device.NewRegistry(querier, logger),
		locker:      locker,
		plat:        plat,
		logger:      logger,
		monitorQuit: make(chan struct{}),
		monitorDone: make(chan struct{}),
	}

	go m.monitor(cfg.MonitorTick)

	return m, nil
}

// CreatePartition leases a fraction of the device's memory for the given
// duration and returns the new partition id. Validation, availability and
// lock acquisition all happen before any bookkeeping changes, so a failure
// at any point leaves the registry and partition list untouched.
func (m *Manager) CreatePartition(deviceIdx int, memoryFraction float64, duration time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.registry.Valid(deviceIdx) {
		return "", cerrors.ErrInvalidDeviceIndex
	}

	if memoryFraction <= 0 || memoryFraction > 1 {
		return "", cerrors.ErrInvalidMemoryFraction
	}

	if duration <= 0 {
		return "", cerrors.ErrInvalidDuration
	}

	dev := m.registry.Get(deviceIdx)

	requested := uint64(float64(dev.TotalMemory) * memoryFraction)
	if requested > dev.AvailableMemory {
		return "", cerrors.InsufficientMemoryError{
			DeviceIndex: deviceIdx,
			Requested:   requested,
			Available:   dev.AvailableMemory,
		}
	}

	user := m.plat.Username()

	// Advisory pre-check so a hold by another user is reported with its
	// owner. The atomic create below remains the sole authority.
	if m.locker.Exists(deviceIdx, memoryFraction) {
		if owner := m.locker.Owner(deviceIdx, memoryFraction); owner != user {
			lockConflicts.Inc()

			return "", cerrors.LockHeldError{Owner: owner}
		}
	}

	id := m.nextID()

	if err := m.locker.Acquire(deviceIdx, memoryFraction, id); err != nil {
		if errors.Is(err, cerrors.ErrLockConflict) {
			lockConflicts.Inc()
		}

		return "", err
	}

	dev.AvailableMemory -= requested

	p := Partition{
		ID:             id,
		DeviceIndex:    deviceIdx,
		MemoryFraction: memoryFraction,
		Duration:       duration,
		StartTime:      m.plat.Now(),
		Active:         true,
		ProcessID:      m.plat.ProcessID(),
		Username:       user,
	}
	m.partitions = append(m.partitions, p)

	partitionsCreated.Inc()
	activePartitions.Inc()
	deviceAvailableBytes.WithLabelValues(strconv.Itoa(deviceIdx)).Set(float64(dev.AvailableMemory))

	m.logger.WithFields(logrus.Fields{
		"partition": id,
		"device":    deviceIdx,
		"memory":    units.BytesSize(float64(requested)),
		"duration":  duration,
		"user":      user,
		"pid":       p.ProcessID,
	}).Info("created partition")

	return id, nil
}

// ListPartitions returns a snapshot of every active partition. Entries that
// were released but not yet compacted by the monitor are filtered out here,
// never by relying on list length.
func (m *Manager) ListPartitions() []Partition {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Partition, 0, len(m.partitions))

	for _, p := range m.partitions {
		if p.Active {
			out = append(out, p)
		}
	}

	return out
}

// WritePartitions writes a human readable listing of the active partitions.
func (m *Manager) WritePartitions(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.plat.Now()
	count := 0

	for _, p := range m.partitions {
		if !p.Active {
			continue
		}

		if count == 0 {
			fmt.Fprintln(w, "Active partitions:")
			fmt.Fprintln(w, "-----------------")
		}

		count++

		name := "Unknown"
		if dev := m.registry.Get(p.DeviceIndex); dev != nil {
			name = dev.Name
		}

		fmt.Fprintf(w, "ID: %s\n", p.ID)
		fmt.Fprintf(w, "  Device: %d (%s)\n", p.DeviceIndex, name)
		fmt.Fprintf(w, "  Memory: %.1f%%\n", p.MemoryFraction*100)
		fmt.Fprintf(w, "  Time remaining: %s\n", units.HumanDuration(p.Remaining(now)))
		fmt.Fprintf(w, "  Owner: %s (PID: %d)\n\n", p.Username, p.ProcessID)
	}

	if count == 0 {
		fmt.Fprintln(w, "No active partitions")
	}
}

// ReleasePartition releases an active partition early. Only the owning user
// may release it; a mismatch changes nothing.
func (m *Manager) ReleasePartition(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.plat.Username()

	for i := range m.partitions {
		p := &m.partitions[i]
		if p.ID != id || !p.Active {
			continue
		}

		if p.Username != user {
			return cerrors.NotOwnerError{Owner: p.Username, User: user}
		}

		if err := m.reclaimLocked(p); err != nil {
			m.logger.WithError(err).WithField("partition", id).Warn("releasing partition lock")
		}

		p.Active = false

		partitionsReleased.Inc()
		activePartitions.Dec()

		m.logger.WithField("partition", id).Info("partition released")

		return nil
	}

	return cerrors.ErrPartitionNotFound
}

// AvailablePercentage returns the percentage of the device's memory still
// available, or a negative value for an invalid device index.
func (m *Manager) AvailablePercentage(deviceIdx int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev := m.registry.Get(deviceIdx)
	if dev == nil || dev.TotalMemory == 0 {
		return -1
	}

	return 100 * float64(dev.AvailableMemory) / float64(dev.TotalMemory)
}

// Devices returns a snapshot of the device registry.
func (m *Manager) Devices() []device.Device {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.registry.Snapshot()
}

// WriteDeviceStats writes a per-device usage report. Read-only.
func (m *Manager) WriteDeviceStats(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fmt.Fprintln(w, "Device statistics:")
	fmt.Fprintln(w, "=================")

	for _, dev := range m.registry.Snapshot() {
		used := dev.TotalMemory - dev.AvailableMemory

		usagePercent := 0.0
		if dev.TotalMemory > 0 {
			usagePercent = 100 * float64(used) / float64(dev.TotalMemory)
		}

		active := 0

		for _, p := range m.partitions {
			if p.Active && p.DeviceIndex == dev.Index {
				active++
			}
		}

		fmt.Fprintf(w, "Device %d: %s\n", dev.Index, dev.Name)
		fmt.Fprintf(w, "  Type: %s\n", dev.Type)
		fmt.Fprintf(w, "  Vendor: %s\n", dev.Vendor)
		fmt.Fprintf(w, "  Version: %s\n", dev.Version)
		fmt.Fprintln(w, "  Memory:")
		fmt.Fprintf(w, "    Total: %s\n", units.BytesSize(float64(dev.TotalMemory)))
		fmt.Fprintf(w, "    Used: %s\n", units.BytesSize(float64(used)))
		fmt.Fprintf(w, "    Available: %s\n", units.BytesSize(float64(dev.AvailableMemory)))
		fmt.Fprintf(w, "    Usage: %.2f%%\n", usagePercent)
		fmt.Fprintf(w, "  Active partitions: %d\n\n", active)
	}
}

// Close stops the expiry monitor, waits for it, and then releases every
// partition that is still active. The ordering matters: the monitor must be
// joined before teardown mutates the list it sweeps.
func (m *Manager) Close() error {
	var errs *multierror.Error

	m.closeOnce.Do(func() {
		close(m.monitorQuit)
		<-m.monitorDone

		m.mu.Lock()
		defer m.mu.Unlock()

		for i := range m.partitions {
			p := &m.partitions[i]
			if !p.Active {
				continue
			}

			if err := m.reclaimLocked(p); err != nil {
				errs = multierror.Append(errs, err)
			}

			p.Active = false

			activePartitions.Dec()
		}

		m.partitions = m.partitions[:0]
	})

	return errs.ErrorOrNil()
}

// reclaimLocked restores the device's available memory and drops the slot
// lock. Callers must hold m.mu and flip Active themselves. A lock delete
// failure is returned but the memory restore always happens.
func (m *Manager) reclaimLocked(p *Partition) error {
	if dev := m.registry.Get(p.DeviceIndex); dev != nil {
		freed := uint64(float64(dev.TotalMemory) * p.MemoryFraction)

		dev.AvailableMemory += freed
		if dev.AvailableMemory > dev.TotalMemory {
			dev.AvailableMemory = dev.TotalMemory
		}

		deviceAvailableBytes.WithLabelValues(strconv.Itoa(p.DeviceIndex)).Set(float64(dev.AvailableMemory))
	}

	if err := m.locker.Release(p.DeviceIndex, p.MemoryFraction); err != nil {
		return fmt.Errorf("deleting lock for partition %s: %w", p.ID, err)
	}

	return nil
}

// nextID generates the next partition id, a fixed-width counter token that
// is unique for the lifetime of this manager.
func (m *Manager) nextID() string {
	m.idCounter++

	return fmt.Sprintf("partition_%04d", m.idCounter)
}

package partition_test

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-gpu/chronos/pkg/device"
	"github.com/chronos-gpu/chronos/pkg/partition"
	"github.com/chronos-gpu/chronos/pkg/platform"
)

func newMonitoredManager(t *testing.T, fake *platform.Fake) *partition.Manager {
	t.Helper()

	querier := device.NewStaticQuerier(
		device.StaticSpec{Name: "Test GPU 0", TotalMemory: gib},
	)

	logger := logrus.NewEntry(logrus.New())
	logger.Logger.SetLevel(logrus.PanicLevel)

	m, err := partition.New(partition.Config{
		LockDir:     "/locks",
		MonitorTick: 5 * time.Millisecond,
		Logger:      logger,
	}, fake, querier)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = m.Close()
	})

	return m
}

func TestMonitorReclaimsExpiredPartition(t *testing.T) {
	fake := platform.NewFake()
	m := newMonitoredManager(t, fake)

	_, err := m.CreatePartition(0, 0.5, 10*time.Second)
	require.NoError(t, err)

	// Before the deadline nothing is reclaimed, however many ticks pass.
	fake.Advance(9 * time.Second)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, m.ListPartitions(), 1)
	assert.Equal(t, 1, fake.FileCount())

	fake.Advance(2 * time.Second)

	assert.Eventually(t, func() bool {
		return len(m.ListPartitions()) == 0
	}, time.Second, 5*time.Millisecond)

	assert.InDelta(t, 100.0, m.AvailablePercentage(0), 1e-9)
	assert.Equal(t, 0, fake.FileCount())
}

func TestMonitorReclaimsOnlyOverdue(t *testing.T) {
	fake := platform.NewFake()
	m := newMonitoredManager(t, fake)

	short, err := m.CreatePartition(0, 0.25, 10*time.Second)
	require.NoError(t, err)

	long, err := m.CreatePartition(0, 0.5, time.Hour)
	require.NoError(t, err)

	fake.Advance(30 * time.Second)

	assert.Eventually(t, func() bool {
		return len(m.ListPartitions()) == 1
	}, time.Second, 5*time.Millisecond)

	remaining := m.ListPartitions()
	require.Len(t, remaining, 1)
	assert.Equal(t, long, remaining[0].ID)
	assert.NotEqual(t, short, remaining[0].ID)

	assert.InDelta(t, 50.0, m.AvailablePercentage(0), 1e-6)
	assert.Equal(t, 1, fake.FileCount())
}

func TestMonitorFreesSlotForReuse(t *testing.T) {
	fake := platform.NewFake()
	m := newMonitoredManager(t, fake)

	_, err := m.CreatePartition(0, 0.5, 10*time.Second)
	require.NoError(t, err)

	fake.Advance(11 * time.Second)

	assert.Eventually(t, func() bool {
		return len(m.ListPartitions()) == 0
	}, time.Second, 5*time.Millisecond)

	// The slot lock is gone, so the same lease can be granted again.
	_, err = m.CreatePartition(0, 0.5, time.Hour)
	assert.NoError(t, err)
}

func TestCloseStopsMonitor(t *testing.T) {
	fake := platform.NewFake()

	querier := device.NewStaticQuerier(
		device.StaticSpec{Name: "Test GPU 0", TotalMemory: gib},
	)

	logger := logrus.NewEntry(logrus.New())
	logger.Logger.SetLevel(logrus.PanicLevel)

	m, err := partition.New(partition.Config{
		LockDir:     "/locks",
		MonitorTick: 5 * time.Millisecond,
		Logger:      logger,
	}, fake, querier)
	require.NoError(t, err)

	_, err = m.CreatePartition(0, 0.5, 10*time.Second)
	require.NoError(t, err)

	require.NoError(t, m.Close())

	// A partition expiring after Close must stay untouched: the monitor is
	// joined and its lock already reclaimed by teardown.
	fake.Advance(time.Minute)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, fake.FileCount())
	assert.Empty(t, m.ListPartitions())
}

package partition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chronos-gpu/chronos/pkg/partition"
)

func TestPartitionExpired(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := partition.Partition{
		StartTime: start,
		Duration:  10 * time.Second,
	}

	assert.False(t, p.Expired(start))
	assert.False(t, p.Expired(start.Add(9*time.Second)))
	assert.True(t, p.Expired(start.Add(10*time.Second)))
	assert.True(t, p.Expired(start.Add(time.Hour)))
}

func TestPartitionRemaining(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := partition.Partition{
		StartTime: start,
		Duration:  10 * time.Second,
	}

	assert.Equal(t, 10*time.Second, p.Remaining(start))
	assert.Equal(t, 4*time.Second, p.Remaining(start.Add(6*time.Second)))

	// Never negative, however overdue.
	assert.Equal(t, time.Duration(0), p.Remaining(start.Add(time.Hour)))
}

// Package partition implements the GPU partition lifecycle: time and memory
// bounded leases of a device memory fraction, coordinated across processes
// through lock files and reclaimed by a background expiry monitor.
package partition

import (
	"time"
)

// Partition is a time and memory bounded lease of a slice of one device,
// granted to one user and process.
type Partition struct {
	// ID is the manager-generated identifier, unique for the process
	// lifetime of the manager.
	ID string
	// DeviceIndex names the device the lease is held on.
	DeviceIndex int
	// MemoryFraction is the leased share of the device's total memory,
	// in (0, 1].
	MemoryFraction float64
	// Duration is how long the lease lives before the monitor reclaims it.
	Duration time.Duration
	// StartTime is when the lease was granted.
	StartTime time.Time
	// Active flips to false exactly once, on release or expiry.
	Active bool
	// ProcessID is the pid of the creating process.
	ProcessID int
	// Username is the owner; only the owner may release the lease early.
	Username string
}

// Expired reports whether the lease is past its duration at the given time.
func (p Partition) Expired(now time.Time) bool {
	return now.Sub(p.StartTime) >= p.Duration
}

// Remaining returns the time left before expiry, clamped at zero.
func (p Partition) Remaining(now time.Time) time.Duration {
	left := p.Duration - now.Sub(p.StartTime)
	if left < 0 {
		return 0
	}

	return left
}

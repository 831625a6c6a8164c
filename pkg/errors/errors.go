package errors

import (
	"errors"
	"fmt"

	units "github.com/docker/go-units"
)

var (
	ErrInvalidDeviceIndex    = errors.New("device index out of range")
	ErrInvalidMemoryFraction = errors.New("memory fraction must be greater than 0 and at most 1")
	ErrInvalidDuration       = errors.New("partition duration must be positive")
	ErrPartitionNotFound     = errors.New("partition not found or already released")
	ErrLockConflict          = errors.New("lock already held for device and fraction")
	ErrLedgerExists          = errors.New("memory ledger already registered for partition")
	ErrLedgerNotFound        = errors.New("no memory ledger registered for partition")
	ErrBufferAlreadyTracked  = errors.New("buffer handle is already tracked")
	ErrBufferNotTracked      = errors.New("buffer handle is not tracked")
)

// InsufficientMemoryError is returned when a partition request exceeds the
// memory still available on the device.
type InsufficientMemoryError struct {
	DeviceIndex int
	Requested   uint64
	Available   uint64
}

// Error returns the error message.
func (e InsufficientMemoryError) Error() string {
	return fmt.Sprintf("not enough available memory on device %d: requested %s, available %s",
		e.DeviceIndex,
		units.BytesSize(float64(e.Requested)),
		units.BytesSize(float64(e.Available)))
}

// LockHeldError is returned when the lock slot for a device and fraction is
// already held by another user.
type LockHeldError struct {
	Owner string
}

// Error returns the error message.
func (e LockHeldError) Error() string {
	return fmt.Sprintf("partition slot is locked by user: %s", e.Owner)
}

// NotOwnerError is returned when a partition release is attempted by a user
// other than the partition's owner.
type NotOwnerError struct {
	Owner string
	User  string
}

// Error returns the error message.
func (e NotOwnerError) Error() string {
	return fmt.Sprintf("permission denied for %s: partition owned by %s", e.User, e.Owner)
}

// MemoryLimitError is returned when tracking a buffer would push a
// partition's usage past its byte budget.
type MemoryLimitError struct {
	PartitionID string
	Requested   uint64
	Used        uint64
	Limit       uint64
}

// Error returns the error message.
func (e MemoryLimitError) Error() string {
	return fmt.Sprintf("partition %s: tracking %d bytes would exceed limit (%d of %d bytes in use)",
		e.PartitionID, e.Requested, e.Used, e.Limit)
}

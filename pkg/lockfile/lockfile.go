// Package lockfile turns the filesystem's atomic create-exclusive operation
// into a cross-process mutual exclusion primitive. A lock is keyed by
// (device index, memory fraction quantized to per-mille); the existence of
// the lock file is the lock, its content is metadata for ownership
// diagnosis only.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"

	cerrors "github.com/chronos-gpu/chronos/pkg/errors"
	"github.com/chronos-gpu/chronos/pkg/platform"
)

// Locker manages lock files under one base directory.
type Locker struct {
	baseDir string
	plat    platform.Platform
}

// New creates the lock directory if needed and returns a Locker over it.
func New(plat platform.Platform, baseDir string) (*Locker, error) {
	if err := plat.CreateDir(baseDir); err != nil {
		return nil, fmt.Errorf("creating lock directory %s: %w", baseDir, err)
	}

	return &Locker{baseDir: baseDir, plat: plat}, nil
}

// Key quantizes a memory fraction to the per-mille slot used in lock paths.
func Key(fraction float64) int {
	return int(math.Round(fraction * 1000))
}

// Dir returns the lock base directory.
func (l *Locker) Dir() string {
	return l.baseDir
}

// Path returns the lock file path for a device and fraction slot.
func (l *Locker) Path(deviceIdx int, fraction float64) string {
	return filepath.Join(l.baseDir, fmt.Sprintf("gpu_%d_%04d.lock", deviceIdx, Key(fraction)))
}

// Acquire atomically creates the slot's lock file with the caller's
// identity as content. The create is the sole authority on exclusivity:
// losing the race to another process returns ErrLockConflict regardless of
// what any prior existence check said.
func (l *Locker) Acquire(deviceIdx int, fraction float64, partitionID string) error {
	meta := Meta{
		PID:       l.plat.ProcessID(),
		User:      l.plat.Username(),
		Host:      l.plat.Hostname(),
		Time:      l.plat.Now().Format(platform.TimeFormat),
		Device:    deviceIdx,
		Fraction:  fraction,
		Partition: partitionID,
	}

	if err := l.plat.CreateFileExclusive(l.Path(deviceIdx, fraction), meta.Encode()); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return cerrors.ErrLockConflict
		}

		return fmt.Errorf("writing lock file: %w", err)
	}

	return nil
}

// Release deletes the slot's lock file unconditionally. Ownership is
// enforced by the partition manager before this is called.
func (l *Locker) Release(deviceIdx int, fraction float64) error {
	return l.plat.DeleteFile(l.Path(deviceIdx, fraction))
}

// Exists reports whether the slot is held.
func (l *Locker) Exists(deviceIdx int, fraction float64) bool {
	return l.plat.FileExists(l.Path(deviceIdx, fraction))
}

// Owner returns the username recorded in the slot's lock file, or "" when
// the slot is free or unreadable. The result is advisory: only Acquire
// decides who actually gets the slot.
func (l *Locker) Owner(deviceIdx int, fraction float64) string {
	meta, err := l.Read(deviceIdx, fraction)
	if err != nil {
		return ""
	}

	return meta.User
}

// Read returns the metadata stored in the slot's lock file.
func (l *Locker) Read(deviceIdx int, fraction float64) (*Meta, error) {
	content, err := l.plat.ReadFile(l.Path(deviceIdx, fraction))
	if err != nil {
		return nil, fmt.Errorf("reading lock file: %w", err)
	}

	return ParseMeta(content)
}

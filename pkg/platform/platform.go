// Package platform supplies the OS-facing primitives the partition manager
// and lock protocol depend on. The interface is injected at construction so
// embedding environments and tests can substitute their own implementation.
package platform

import "time"

// TimeFormat is the timestamp layout written into lock files.
const TimeFormat = "2006-01-02 15:04:05"

// Platform is the contract the core requires from the operating system.
type Platform interface {
	// ProcessID returns the current process id.
	ProcessID() int
	// Username returns the name of the user running the process.
	Username() string
	// Hostname returns the host's name.
	Hostname() string
	// Now returns the current time.
	Now() time.Time
	// CreateDir creates a directory, succeeding if it already exists.
	CreateDir(path string) error
	// CreateFileExclusive atomically creates a file with the given content,
	// failing if the file already exists. The create-exclusive semantics are
	// what the cross-process lock protocol's mutual exclusion rests on.
	CreateFileExclusive(path string, content []byte) error
	// DeleteFile removes a file.
	DeleteFile(path string) error
	// FileExists reports whether path names an existing regular file.
	FileExists(path string) bool
	// ReadFile returns a file's full content.
	ReadFile(path string) ([]byte, error)
}

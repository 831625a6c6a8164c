package platform

import (
	"os"
	"os/user"
	"time"

	"github.com/chronos-gpu/chronos/pkg/defaults"
)

// NewHost returns the Platform implementation backed by the local OS.
func NewHost() Platform {
	return &host{}
}

type host struct{}

func (h *host) ProcessID() int {
	return os.Getpid()
}

func (h *host) Username() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}

	return u.Username
}

func (h *host) Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown-host"
	}

	return name
}

func (h *host) Now() time.Time {
	return time.Now()
}

func (h *host) CreateDir(path string) error {
	return os.MkdirAll(path, defaults.DataDirPerm)
}

func (h *host) CreateFileExclusive(path string, content []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaults.DataFilePerm)
	if err != nil {
		return err
	}

	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		_ = os.Remove(path)

		return err
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()

		return err
	}

	return file.Close()
}

func (h *host) DeleteFile(path string) error {
	return os.Remove(path)
}

func (h *host) FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func (h *host) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

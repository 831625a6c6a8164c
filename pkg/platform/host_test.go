package platform_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-gpu/chronos/pkg/platform"
)

func TestHostIdentity(t *testing.T) {
	host := platform.NewHost()

	assert.Equal(t, os.Getpid(), host.ProcessID())
	assert.NotEmpty(t, host.Username())
	assert.NotEmpty(t, host.Hostname())
	assert.WithinDuration(t, time.Now(), host.Now(), time.Minute)
}

func TestHostCreateFileExclusive(t *testing.T) {
	host := platform.NewHost()
	path := filepath.Join(t.TempDir(), "gpu_0_0500.lock")

	require.NoError(t, host.CreateFileExclusive(path, []byte("content\n")))
	assert.True(t, host.FileExists(path))

	got, err := host.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("content\n"), got)

	// Second exclusive create on the same path loses.
	err = host.CreateFileExclusive(path, []byte("other\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)

	// And the loser did not clobber the winner's content.
	got, err = host.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("content\n"), got)
}

func TestHostDeleteFile(t *testing.T) {
	host := platform.NewHost()
	path := filepath.Join(t.TempDir(), "gpu_0_0500.lock")

	require.NoError(t, host.CreateFileExclusive(path, []byte("content\n")))
	require.NoError(t, host.DeleteFile(path))

	assert.False(t, host.FileExists(path))
	assert.Error(t, host.DeleteFile(path))

	// Deleting frees the path for a new exclusive create.
	assert.NoError(t, host.CreateFileExclusive(path, []byte("again\n")))
}

func TestHostCreateDir(t *testing.T) {
	host := platform.NewHost()
	dir := filepath.Join(t.TempDir(), "locks", "nested")

	require.NoError(t, host.CreateDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	assert.NoError(t, host.CreateDir(dir))
}

func TestHostFileExistsOnDirectory(t *testing.T) {
	host := platform.NewHost()

	// Directories are not lock files.
	assert.False(t, host.FileExists(t.TempDir()))
}

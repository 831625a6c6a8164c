package platform

import (
	"fmt"
	"io/fs"
	"sync"
	"time"
)

// Fake is an in-memory Platform for tests. Files live in a map, the identity
// fields are settable and the clock only moves when Advance is called.
type Fake struct {
	mu sync.Mutex

	PID  int
	User string
	Host string

	now   time.Time
	files map[string][]byte
	dirs  map[string]bool
}

// NewFake returns a Fake with a fixed identity and clock.
func NewFake() *Fake {
	return &Fake{
		PID:   4242,
		User:  "tester",
		Host:  "testhost",
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		files: map[string][]byte{},
		dirs:  map[string]bool{},
	}
}

// Advance moves the fake clock forward.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

// SetUser changes the identity reported by Username.
func (f *Fake) SetUser(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.User = name
}

func (f *Fake) ProcessID() int {
	return f.PID
}

func (f *Fake) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.User
}

func (f *Fake) Hostname() string {
	return f.Host
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *Fake) CreateDir(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dirs[path] = true

	return nil
}

func (f *Fake) CreateFileExclusive(path string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.files[path]; exists {
		return fmt.Errorf("create %s: %w", path, fs.ErrExist)
	}

	f.files[path] = append([]byte(nil), content...)

	return nil
}

func (f *Fake) DeleteFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.files[path]; !exists {
		return fmt.Errorf("remove %s: %w", path, fs.ErrNotExist)
	}

	delete(f.files, path)

	return nil
}

func (f *Fake) FileExists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, exists := f.files[path]

	return exists
}

func (f *Fake) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, exists := f.files[path]
	if !exists {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}

	return append([]byte(nil), content...), nil
}

// FileCount returns the number of files currently stored.
func (f *Fake) FileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.files)
}

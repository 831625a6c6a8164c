package device

import (
	units "github.com/docker/go-units"
	"github.com/sirupsen/logrus"
	"strings"
)

// Type is a bitmask identifying the kind of compute device.
type Type uint32

const (
	TypeCPU Type = 1 << iota
	TypeGPU
	TypeAccelerator
	TypeDefault
)

// String renders the type flags the way device drivers report them.
func (t Type) String() string {
	var parts []string

	if t&TypeCPU != 0 {
		parts = append(parts, "CPU")
	}

	if t&TypeGPU != 0 {
		parts = append(parts, "GPU")
	}

	if t&TypeAccelerator != 0 {
		parts = append(parts, "Accelerator")
	}

	if t&TypeDefault != 0 {
		parts = append(parts, "Default")
	}

	if len(parts) == 0 {
		return "Unknown"
	}

	return strings.Join(parts, " ")
}

// Device holds the identity and memory accounting for one accelerator.
type Device struct {
	Index           int
	Name            string
	Vendor          string
	Version         string
	Type            Type
	TotalMemory     uint64
	AvailableMemory uint64
}

// Querier enumerates compute devices at startup.
type Querier interface {
	Devices() ([]Device, error)
}

// Registry holds the devices discovered at startup. It is created once and
// devices are only ever updated, never added or removed.
//
// The registry carries no lock of its own: the partition manager guards it
// together with the lease list under a single mutex so that availability
// checks and commits happen atomically as a pair.
type Registry struct {
	devices []Device
}

// NewRegistry populates a registry from the querier. Enumeration failure
// degrades to an empty registry so the manager stays constructible; every
// operation against it will then report an invalid device index.
func NewRegistry(querier Querier, logger *logrus.Entry) *Registry {
	devices, err := querier.Devices()
	if err != nil {
		logger.WithError(err).Warn("device enumeration failed, continuing with an empty device registry")

		return &Registry{}
	}

	logger.Infof("found %d compute device(s)", len(devices))

	for _, dev := range devices {
		logger.WithFields(logrus.Fields{
			"device": dev.Index,
			"type":   dev.Type.String(),
			"vendor": dev.Vendor,
			"memory": units.BytesSize(float64(dev.TotalMemory)),
		}).Infof("device %d: %s", dev.Index, dev.Name)
	}

	return &Registry{devices: devices}
}

// Count returns the number of devices in the registry.
func (r *Registry) Count() int {
	return len(r.devices)
}

// Valid reports whether idx names a device in the registry.
func (r *Registry) Valid(idx int) bool {
	return idx >= 0 && idx < len(r.devices)
}

// Get returns the device at idx for in-place mutation, or nil when idx is
// out of range. Callers must hold the manager's mutex.
func (r *Registry) Get(idx int) *Device {
	if !r.Valid(idx) {
		return nil
	}

	return &r.devices[idx]
}

// Snapshot returns a copy of every device.
func (r *Registry) Snapshot() []Device {
	out := make([]Device, len(r.devices))
	copy(out, r.devices)

	return out
}

package device

// StaticSpec describes one statically configured device. Used on hosts
// without a supported driver and in tests.
type StaticSpec struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Vendor      string `mapstructure:"vendor" yaml:"vendor"`
	Version     string `mapstructure:"version" yaml:"version"`
	TotalMemory uint64 `mapstructure:"total_memory" yaml:"total_memory"`
}

// StaticQuerier serves a fixed device list.
type StaticQuerier struct {
	specs []StaticSpec
}

// NewStaticQuerier builds a querier over the given specs.
func NewStaticQuerier(specs ...StaticSpec) *StaticQuerier {
	return &StaticQuerier{specs: specs}
}

// Devices implements Querier.
func (q *StaticQuerier) Devices() ([]Device, error) {
	devices := make([]Device, 0, len(q.specs))

	for i, spec := range q.specs {
		vendor := spec.Vendor
		if vendor == "" {
			vendor = "Unknown"
		}

		devices = append(devices, Device{
			Index:           i,
			Name:            spec.Name,
			Vendor:          vendor,
			Version:         spec.Version,
			Type:            TypeGPU,
			TotalMemory:     spec.TotalMemory,
			AvailableMemory: spec.TotalMemory,
		})
	}

	return devices, nil
}

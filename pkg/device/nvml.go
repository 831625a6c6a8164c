package device

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// NVMLQuerier enumerates NVIDIA GPUs through the NVIDIA management library.
type NVMLQuerier struct{}

// Devices implements Querier.
func (q NVMLQuerier) Devices() ([]Device, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("initializing NVML: %s", nvml.ErrorString(ret))
	}

	defer func() {
		_ = nvml.Shutdown()
	}()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("counting devices: %s", nvml.ErrorString(ret))
	}

	driver, ret := nvml.SystemGetDriverVersion()
	if ret != nvml.SUCCESS {
		driver = "unknown"
	}

	devices := make([]Device, 0, count)

	for i := 0; i < count; i++ {
		handle, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("getting handle for device %d: %s", i, nvml.ErrorString(ret))
		}

		name, ret := handle.GetName()
		if ret != nvml.SUCCESS {
			name = "Unknown"
		}

		memory, ret := handle.GetMemoryInfo()
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("getting memory info for device %d: %s", i, nvml.ErrorString(ret))
		}

		devices = append(devices, Device{
			Index:           i,
			Name:            name,
			Vendor:          "NVIDIA",
			Version:         driver,
			Type:            TypeGPU,
			TotalMemory:     memory.Total,
			AvailableMemory: memory.Total,
		})
	}

	return devices, nil
}

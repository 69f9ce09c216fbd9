package generator

import "fmt"

// Device selects the execution backend attached to the inference session.
type Device int

const (
	// DeviceCPU runs inference on the default CPU provider.
	DeviceCPU Device = iota
	// DeviceCoreML attaches the CoreML neural-accelerator provider.
	DeviceCoreML
	// DeviceCUDA attaches the CUDA GPU provider.
	DeviceCUDA
)

func (d Device) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	case DeviceCoreML:
		return "coreml"
	case DeviceCUDA:
		return "cuda"
	}
	return fmt.Sprintf("Device(%d)", int(d))
}

// ParseDevice maps a configuration string to a Device.
func ParseDevice(s string) (Device, error) {
	switch s {
	case "cpu":
		return DeviceCPU, nil
	case "coreml":
		return DeviceCoreML, nil
	case "cuda":
		return DeviceCUDA, nil
	}
	return 0, fmt.Errorf("%w: unknown device %q", ErrInvalidConfig, s)
}

// backendConfig is the engine configuration a Device and thread count
// translate to. At most one accelerator provider is attached per session.
type backendConfig struct {
	device     Device
	numThreads int
}

// resolveBackend validates and translates construction parameters. It is
// pure: no engine resources are touched, so an invalid configuration is
// rejected before anything is allocated. Whether the selected provider is
// actually present on the machine is decided later by the EngineLoader,
// which must fail with ErrBackendUnavailable rather than fall back to CPU.
func resolveBackend(device Device, numThreads int) (backendConfig, error) {
	if numThreads <= 0 {
		return backendConfig{}, fmt.Errorf("%w: numThreads must be positive, got %d",
			ErrInvalidConfig, numThreads)
	}
	switch device {
	case DeviceCPU, DeviceCoreML, DeviceCUDA:
	default:
		return backendConfig{}, fmt.Errorf("%w: unknown device %v", ErrInvalidConfig, device)
	}
	return backendConfig{device: device, numThreads: numThreads}, nil
}

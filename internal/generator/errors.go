package generator

import "errors"

// Every failure the pipeline can surface wraps exactly one of these
// sentinels, so callers can classify with errors.Is. Nothing is retried or
// downgraded internally: a requested accelerator that is missing fails
// construction instead of silently running on CPU, and a failed inference
// has no partial result to salvage.
var (
	// ErrInvalidConfig indicates bad construction parameters, such as a
	// non-positive thread count or an unknown device or variant name.
	ErrInvalidConfig = errors.New("generator: invalid configuration")

	// ErrBackendUnavailable indicates the requested execution provider
	// could not be attached on this device.
	ErrBackendUnavailable = errors.New("generator: execution backend unavailable")

	// ErrModelLoad indicates the model artifact is missing, corrupt, or
	// declares tensors the pipeline cannot handle.
	ErrModelLoad = errors.New("generator: model load failed")

	// ErrInvalidInput indicates a malformed input bitmap.
	ErrInvalidInput = errors.New("generator: invalid input bitmap")

	// ErrInference indicates the engine failed while executing the model.
	ErrInference = errors.New("generator: inference failed")
)

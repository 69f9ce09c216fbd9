package generator

import "fmt"

// ElementType is the numeric element type of a model tensor.
type ElementType int

const (
	// Float32 tensors hold 32-bit floating point values.
	Float32 ElementType = iota
	// Uint8 tensors hold 8-bit unsigned values (quantized models).
	Uint8
)

func (t ElementType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Uint8:
		return "uint8"
	}
	return fmt.Sprintf("ElementType(%d)", int(t))
}

// Shape is the fixed {batch, height, width, channels} layout of a model
// tensor, discovered from the loaded model at construction time.
type Shape struct {
	Batch    int
	Height   int
	Width    int
	Channels int
}

// Elements returns the flattened element count of the shape.
func (s Shape) Elements() int {
	return s.Batch * s.Height * s.Width * s.Channels
}

// Buffer is a typed view over an engine tensor's backing storage. Exactly
// one of Float/Byte is non-nil, matching the tensor's element type. The
// storage is allocated once at load time and mutated in place every call.
type Buffer struct {
	Float []float32
	Byte  []uint8
}

// Len returns the element count of the buffer.
func (b Buffer) Len() int {
	if b.Float != nil {
		return len(b.Float)
	}
	return len(b.Byte)
}

// Engine is the contract the pipeline needs from a tensor runtime: shape
// and type introspection for tensor index 0, in-place reusable input and
// output buffers, and one synchronous run. Implementations provide no
// concurrency guarantees; the owning Generator serializes access.
type Engine interface {
	InputShape() Shape
	OutputShape() Shape
	InputType() ElementType
	OutputType() ElementType

	// Input and Output return views over the engine's reused tensor
	// storage. The slices stay valid for the engine's lifetime.
	Input() Buffer
	Output() Buffer

	// Run consumes the populated input buffer and populates the output
	// buffer in place. Failures wrap ErrInference and are never retried.
	Run() error

	Close() error
}

// EngineLoader opens a model artifact with a backend configuration.
// Load failures wrap ErrBackendUnavailable (provider could not be
// attached; checked before the artifact is touched) or ErrModelLoad.
type EngineLoader interface {
	Load(modelPath string, cfg backendConfig) (Engine, error)
}

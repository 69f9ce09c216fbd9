package generator

import "fmt"

// ModelVariant selects which packaged generator model to load.
type ModelVariant int

const (
	// VariantFloat is the full-precision float32 model.
	VariantFloat ModelVariant = iota
	// VariantQuantized is the uint8 quantized model, smaller and faster at
	// some cost in fidelity.
	VariantQuantized
)

// ModelFile returns the artifact filename for the variant, relative to the
// model directory. The mapping is fixed; the artifacts are assumed packaged.
func (v ModelVariant) ModelFile() string {
	if v == VariantQuantized {
		return "generator_quantized.onnx"
	}
	return "generator_float.onnx"
}

// ElementType returns the tensor element type the variant's model declares
// for its input and output tensors.
func (v ModelVariant) ElementType() ElementType {
	if v == VariantQuantized {
		return Uint8
	}
	return Float32
}

func (v ModelVariant) String() string {
	switch v {
	case VariantFloat:
		return "float"
	case VariantQuantized:
		return "quantized"
	}
	return fmt.Sprintf("ModelVariant(%d)", int(v))
}

// ParseVariant maps a configuration string to a ModelVariant.
func ParseVariant(s string) (ModelVariant, error) {
	switch s {
	case "float":
		return VariantFloat, nil
	case "quantized":
		return VariantQuantized, nil
	}
	return 0, fmt.Errorf("%w: unknown model variant %q", ErrInvalidConfig, s)
}

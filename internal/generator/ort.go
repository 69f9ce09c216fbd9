package generator

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// ortLoader loads models through ONNX Runtime. It is the production
// EngineLoader; tests substitute a fake.
type ortLoader struct{}

// NewORTLoader returns the ONNX Runtime backed EngineLoader.
func NewORTLoader() EngineLoader {
	return ortLoader{}
}

// ortEngine owns one ONNX Runtime session plus the pre-allocated input and
// output tensors bound to it. The tensors' backing slices are handed out as
// Buffer views, so every call writes and reads the same storage with no
// per-call allocation.
type ortEngine struct {
	session      *ort.AdvancedSession
	inputTensor  ort.ArbitraryTensor
	outputTensor ort.ArbitraryTensor

	inputShape  Shape
	outputShape Shape
	inputType   ElementType
	outputType  ElementType
	input       Buffer
	output      Buffer
}

func (l ortLoader) Load(modelPath string, cfg backendConfig) (Engine, error) {
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: initializing ONNX environment: %v", ErrModelLoad, err)
		}
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: creating session options: %v", ErrModelLoad, err)
	}
	defer options.Destroy()

	if err := options.SetIntraOpNumThreads(cfg.numThreads); err != nil {
		return nil, fmt.Errorf("%w: setting thread count: %v", ErrModelLoad, err)
	}

	// Attach the accelerator before touching the artifact, so a missing
	// provider surfaces as ErrBackendUnavailable prior to any model load.
	switch cfg.device {
	case DeviceCoreML:
		if err := options.AppendExecutionProviderCoreML(0); err != nil {
			return nil, fmt.Errorf("%w: coreml: %v", ErrBackendUnavailable, err)
		}
	case DeviceCUDA:
		cudaOptions, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return nil, fmt.Errorf("%w: cuda: %v", ErrBackendUnavailable, err)
		}
		defer cudaOptions.Destroy()
		if err := options.AppendExecutionProviderCUDA(cudaOptions); err != nil {
			return nil, fmt.Errorf("%w: cuda: %v", ErrBackendUnavailable, err)
		}
	case DeviceCPU:
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading model info from %s: %v", ErrModelLoad, modelPath, err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("%w: model %s declares no input or output tensors",
			ErrModelLoad, modelPath)
	}

	e := &ortEngine{}
	if e.inputShape, e.inputType, err = tensorLayout(inputs[0]); err != nil {
		return nil, err
	}
	if e.outputShape, e.outputType, err = tensorLayout(outputs[0]); err != nil {
		return nil, err
	}

	inputOrtShape := ort.NewShape(inputs[0].Dimensions...)
	outputOrtShape := ort.NewShape(outputs[0].Dimensions...)

	if e.inputTensor, e.input, err = newEmptyTensor(e.inputType, inputOrtShape); err != nil {
		return nil, fmt.Errorf("%w: creating input tensor: %v", ErrModelLoad, err)
	}
	if e.outputTensor, e.output, err = newEmptyTensor(e.outputType, outputOrtShape); err != nil {
		e.inputTensor.Destroy()
		return nil, fmt.Errorf("%w: creating output tensor: %v", ErrModelLoad, err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.ArbitraryTensor{e.inputTensor}, []ort.ArbitraryTensor{e.outputTensor},
		options)
	if err != nil {
		e.inputTensor.Destroy()
		e.outputTensor.Destroy()
		return nil, fmt.Errorf("%w: creating session for %s: %v", ErrModelLoad, modelPath, err)
	}
	e.session = session

	return e, nil
}

// tensorLayout converts the runtime's declared tensor info into the
// pipeline's {1, height, width, channels} shape and element type.
func tensorLayout(info ort.InputOutputInfo) (Shape, ElementType, error) {
	dims := info.Dimensions
	if len(dims) != 4 {
		return Shape{}, 0, fmt.Errorf("%w: tensor %q has rank %d, want 4 (NHWC)",
			ErrModelLoad, info.Name, len(dims))
	}
	s := Shape{
		Batch:    int(dims[0]),
		Height:   int(dims[1]),
		Width:    int(dims[2]),
		Channels: int(dims[3]),
	}
	if s.Batch != 1 || s.Height <= 0 || s.Width <= 0 || s.Channels != 3 {
		return Shape{}, 0, fmt.Errorf("%w: tensor %q has unsupported shape %v",
			ErrModelLoad, info.Name, dims)
	}

	switch info.DataType {
	case ort.TensorElementDataTypeFloat:
		return s, Float32, nil
	case ort.TensorElementDataTypeUint8:
		return s, Uint8, nil
	}
	return Shape{}, 0, fmt.Errorf("%w: tensor %q has unsupported element type %v",
		ErrModelLoad, info.Name, info.DataType)
}

func newEmptyTensor(t ElementType, shape ort.Shape) (ort.ArbitraryTensor, Buffer, error) {
	switch t {
	case Float32:
		tensor, err := ort.NewEmptyTensor[float32](shape)
		if err != nil {
			return nil, Buffer{}, err
		}
		return tensor, Buffer{Float: tensor.GetData()}, nil
	case Uint8:
		tensor, err := ort.NewEmptyTensor[uint8](shape)
		if err != nil {
			return nil, Buffer{}, err
		}
		return tensor, Buffer{Byte: tensor.GetData()}, nil
	}
	return nil, Buffer{}, fmt.Errorf("unsupported element type %v", t)
}

func (e *ortEngine) InputShape() Shape       { return e.inputShape }
func (e *ortEngine) OutputShape() Shape      { return e.outputShape }
func (e *ortEngine) InputType() ElementType  { return e.inputType }
func (e *ortEngine) OutputType() ElementType { return e.outputType }
func (e *ortEngine) Input() Buffer           { return e.input }
func (e *ortEngine) Output() Buffer          { return e.output }

func (e *ortEngine) Run() error {
	if err := e.session.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrInference, err)
	}
	return nil
}

func (e *ortEngine) Close() error {
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
	}
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}

// Package generator runs a line drawing through a pre-trained pix2pix
// style image-to-image model and returns the generated bitmap.
//
// The tensor runtime is consumed as an opaque collaborator behind the
// Engine interface; the package supplies the glue around it: backend
// selection, model variant resolution, bitmap-to-tensor preprocessing and
// tensor-to-bitmap postprocessing.
package generator

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"
)

// Generator owns one loaded model and its reused input/output tensor
// buffers for its whole lifetime. It is not safe for concurrent use: the
// buffers are overwritten in place on every call, so at most one Generate
// may be in flight per instance. Callers needing concurrency use one
// instance per consumer or serialize externally.
type Generator struct {
	engine  Engine
	variant ModelVariant
	device  Device
}

// New validates the configuration, loads the variant's model artifact from
// modelDir through the given loader and returns a ready Generator. Nothing
// is allocated when the configuration is invalid, and an unavailable
// accelerator fails construction before the artifact is touched.
func New(loader EngineLoader, variant ModelVariant, device Device, numThreads int,
	modelDir string) (*Generator, error) {
	cfg, err := resolveBackend(device, numThreads)
	if err != nil {
		return nil, err
	}

	modelPath := filepath.Join(modelDir, variant.ModelFile())
	engine, err := loader.Load(modelPath, cfg)
	if err != nil {
		return nil, err
	}

	// The loaded model's declared element type is authoritative; if it
	// disagrees with the variant the wrong artifact is packaged.
	if engine.InputType() != variant.ElementType() || engine.OutputType() != variant.ElementType() {
		engine.Close()
		return nil, fmt.Errorf("%w: %s model declares %v tensors, want %v",
			ErrModelLoad, variant, engine.InputType(), variant.ElementType())
	}

	return &Generator{engine: engine, variant: variant, device: device}, nil
}

// NewONNX constructs a Generator backed by ONNX Runtime.
func NewONNX(variant ModelVariant, device Device, numThreads int, modelDir string) (*Generator, error) {
	return New(NewORTLoader(), variant, device, numThreads, modelDir)
}

// OutputBounds returns the fixed size of every generated bitmap.
func (g *Generator) OutputBounds() image.Rectangle {
	s := g.engine.OutputShape()
	return image.Rect(0, 0, s.Width, s.Height)
}

// Generate runs the full pipeline synchronously: preprocess the drawing
// into the input buffer, run one inference, and pack the output buffer
// into a new bitmap of the model's declared output size. It blocks until
// done; there is no cancellation or internal timeout. On error no bitmap
// is returned, so a caller never sees a partial result.
func (g *Generator) Generate(drawing image.Image) (*image.RGBA, error) {
	if err := preprocess(drawing, g.engine.InputShape(), g.engine.Input()); err != nil {
		return nil, err
	}

	start := time.Now()
	if err := g.engine.Run(); err != nil {
		return nil, err
	}
	log.Printf("Inference (%s, %s) took %v", g.variant, g.device, time.Since(start))

	return postprocess(g.engine.Output(), g.engine.OutputShape()), nil
}

// Close releases the owned engine. The Generator must not be used after.
func (g *Generator) Close() error {
	return g.engine.Close()
}

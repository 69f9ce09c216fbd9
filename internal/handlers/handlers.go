package handlers

import (
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"net/http"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/nonstopfor/GAN-Travel-Frog/internal/generator"
)

// Generating is the slice of the generator the HTTP layer needs.
type Generating interface {
	Generate(image.Image) (*image.RGBA, error)
	OutputBounds() image.Rectangle
}

type Handler struct {
	gen Generating

	// The generator reuses its tensor buffers, so at most one Generate
	// may run at a time per instance.
	mu sync.Mutex
}

func NewHandler(gen Generating) *Handler {
	return &Handler{gen: gen}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	bounds := h.gen.OutputBounds()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":        "healthy",
		"output_width":  bounds.Dx(),
		"output_height": bounds.Dy(),
	})
}

// Generate accepts a multipart upload of a line drawing and responds with
// the generated image as PNG. On any error no image bytes are written.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse multipart form (10MB max)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("drawing")
	if err != nil {
		http.Error(w, "No drawing file provided. Use 'drawing' as the form field name", http.StatusBadRequest)
		return
	}
	defer file.Close()

	log.Printf("Received file: %s, size: %d bytes", header.Filename, header.Size)

	drawing, format, err := image.Decode(file)
	if err != nil {
		http.Error(w, "Invalid image format. Supported: PNG, JPEG, BMP, WebP", http.StatusBadRequest)
		return
	}

	log.Printf("Drawing format: %s, dimensions: %dx%d",
		format, drawing.Bounds().Dx(), drawing.Bounds().Dy())

	h.mu.Lock()
	generated, err := h.gen.Generate(drawing)
	h.mu.Unlock()
	if err != nil {
		log.Printf("Generation error: %v", err)
		if errors.Is(err, generator.ErrInvalidInput) {
			http.Error(w, "Invalid drawing", http.StatusBadRequest)
			return
		}
		http.Error(w, "Generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, generated); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonstopfor/GAN-Travel-Frog/internal/generator"
)

type stubGenerator struct {
	out   *image.RGBA
	err   error
	calls int
}

func (s *stubGenerator) Generate(image.Image) (*image.RGBA, error) {
	s.calls++
	return s.out, s.err
}

func (s *stubGenerator) OutputBounds() image.Rectangle {
	return image.Rect(0, 0, 8, 8)
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, field string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, "sketch.png")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	h := NewHandler(&stubGenerator{})
	rec := httptest.NewRecorder()

	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, 8, body["output_width"])
	assert.EqualValues(t, 8, body["output_height"])
}

func TestGenerate_ReturnsPNG(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			out.SetRGBA(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	stub := &stubGenerator{out: out}
	h := NewHandler(stub)

	drawing := image.NewRGBA(image.Rect(0, 0, 64, 128))
	body, contentType := multipartBody(t, "drawing", pngBytes(t, drawing))
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, 1, stub.calls)

	decoded, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), decoded.Bounds())
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	h := NewHandler(&stubGenerator{})
	rec := httptest.NewRecorder()

	h.Generate(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerate_MissingFile(t *testing.T) {
	h := NewHandler(&stubGenerator{})

	body, contentType := multipartBody(t, "wrongfield", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_UndecodableUpload(t *testing.T) {
	stub := &stubGenerator{}
	h := NewHandler(stub)

	body, contentType := multipartBody(t, "drawing", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.calls)
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "invalid input",
			err:      fmt.Errorf("%w: bad bitmap", generator.ErrInvalidInput),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "inference failure",
			err:      fmt.Errorf("%w: delegate fault", generator.ErrInference),
			wantCode: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubGenerator{err: tt.err})

			body, contentType := multipartBody(t, "drawing",
				pngBytes(t, image.NewRGBA(image.Rect(0, 0, 4, 4))))
			req := httptest.NewRequest(http.MethodPost, "/generate", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			h.Generate(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			// No partial image is ever written on error.
			assert.NotEqual(t, "image/png", rec.Header().Get("Content-Type"))
		})
	}
}

package generator

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// preprocess converts an arbitrary-sized bitmap into the engine's reused
// input buffer. The policy is fixed: center-crop to the largest square the
// bitmap contains, then nearest-neighbor resize to the model's input size.
// Nearest neighbor keeps the hard edges of a line drawing intact where a
// smoothing filter would blur them, and because the crop always yields a
// square the resize never changes aspect ratio.
//
// Pixels are written as interleaved RGB in row-major order, alpha dropped.
// Float models take the raw 0-255 channel values; the pipeline applies no
// normalization.
func preprocess(img image.Image, shape Shape, buf Buffer) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("%w: image dimensions %dx%d",
			ErrInvalidInput, bounds.Dx(), bounds.Dy())
	}

	cropSize := bounds.Dx()
	if bounds.Dy() < cropSize {
		cropSize = bounds.Dy()
	}

	square := centerCrop(img, cropSize)
	scaled := resize.Resize(uint(shape.Width), uint(shape.Height), square, resize.NearestNeighbor)

	fillBuffer(scaled, shape, buf)
	return nil
}

// centerCrop copies the centered size x size window of img onto a zeroed
// square. Where the source does not cover the window the square keeps its
// zero pixels, so undersized sources are zero-padded rather than stretched.
func centerCrop(img image.Image, size int) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, size, size))

	// Offsets of the source inside the window: positive pads, negative crops.
	dx := (size - bounds.Dx()) / 2
	dy := (size - bounds.Dy()) / 2

	target := image.Rect(0, 0, bounds.Dx(), bounds.Dy()).
		Add(image.Pt(dx, dy)).
		Intersect(dst.Bounds())
	src := image.Pt(bounds.Min.X+target.Min.X-dx, bounds.Min.Y+target.Min.Y-dy)
	draw.Draw(dst, target, img, src, draw.Src)
	return dst
}

func fillBuffer(img image.Image, shape Shape, buf Buffer) {
	bounds := img.Bounds()
	i := 0
	for y := 0; y < shape.Height; y++ {
		for x := 0; x < shape.Width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if buf.Float != nil {
				buf.Float[i] = float32(r >> 8)
				buf.Float[i+1] = float32(g >> 8)
				buf.Float[i+2] = float32(b >> 8)
			} else {
				buf.Byte[i] = uint8(r >> 8)
				buf.Byte[i+1] = uint8(g >> 8)
				buf.Byte[i+2] = uint8(b >> 8)
			}
			i += 3
		}
	}
}

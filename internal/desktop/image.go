package desktop

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
)

// scaledSize shrinks (w, h) by a single ratio so neither side exceeds maxDim.
// Sizes already within bounds are returned unchanged. Truncated sides are
// kept at one pixel at least.
func scaledSize(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	ratio := math.Min(float64(maxDim)/float64(w), float64(maxDim)/float64(h))
	newWidth := int(float64(w) * ratio)
	newHeight := int(float64(h) * ratio)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	return newWidth, newHeight
}

// fitTo downsamples img with a Lanczos filter when it exceeds maxDim.
func fitTo(img image.Image, maxDim int) image.Image {
	size := img.Bounds().Size()
	newWidth, newHeight := scaledSize(size.X, size.Y, maxDim)
	if newWidth == size.X && newHeight == size.Y {
		return img
	}
	return resize.Resize(uint(newWidth), uint(newHeight), img, resize.Lanczos3)
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	err := webp.Encode(&buf, img, &webp.Options{
		Lossless: false,
		Quality:  float32(quality),
		Exact:    false,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to encode the image with WebP: %w", err)
	}
	return buf.Bytes(), nil
}

// Package transform holds the pure image operations the store offers.
// Inputs are never mutated; every function returns a new image.
package transform

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Grayscale converts every pixel to its luminance-preserving gray equivalent.
func Grayscale(img image.Image) image.Image {
	return imaging.Grayscale(img)
}

// Blur applies a Gaussian blur with the given standard deviation. A sigma of
// zero or less returns a copy of the input unchanged.
func Blur(img image.Image, sigma float64) image.Image {
	if sigma <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Blur(img, sigma)
}

// Thumbnail scales the image down to fit within width x height, preserving
// aspect ratio. Images already within bounds are returned at their original
// size, never scaled up.
func Thumbnail(img image.Image, width, height int) image.Image {
	return imaging.Fit(img, width, height, imaging.Lanczos)
}

// EncodePNG serializes a transform result for a response body.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("could not encode png: %w", err)
	}
	return buf.Bytes(), nil
}

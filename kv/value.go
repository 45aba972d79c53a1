package kv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrInvalidImage indicates bytes declared as image/* that do not decode.
	// Such payloads are rejected outright rather than stored as opaque data.
	ErrInvalidImage = errors.New("invalid image")

	// ErrBadFrame indicates a stored frame that cannot be parsed back into a
	// value. It can only happen if a backend corrupts or truncates data.
	ErrBadFrame = errors.New("bad frame")
)

const imagePrefix = "image/"

// Value is what the store holds for a key: either a decoded image or an
// opaque payload with its declared content type. There is no third variant
// and the two are never coerced into one another. The zero Value is not
// meaningful; construct one with Classify.
type Value struct {
	contentType string
	data        []byte
	img         image.Image // nil for opaque values
}

// Classify converts a declared content type and raw bytes into a Value. A
// content type with the image/ prefix must decode; anything else is stored
// opaquely, unconditionally. Image values retain the original bytes, so a
// plain read returns exactly what was written.
func Classify(contentType string, data []byte) (Value, error) {
	if strings.HasPrefix(contentType, imagePrefix) {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return Value{}, fmt.Errorf("%v: %w", err, ErrInvalidImage)
		}
		return Value{contentType: contentType, data: data, img: img}, nil
	}
	return Value{contentType: contentType, data: data}, nil
}

// ContentType returns the content type declared when the value was written.
func (v Value) ContentType() string { return v.contentType }

// Bytes returns the payload exactly as it was written.
func (v Value) Bytes() []byte { return v.data }

// Image returns the decoded bitmap and whether the value holds one.
func (v Value) Image() (image.Image, bool) { return v.img, v.img != nil }

// encodeFrame lays a value out for a byte-level backend: 2-byte big-endian
// content type length, content type, payload.
func (v Value) encodeFrame() ([]byte, error) {
	if len(v.contentType) > math.MaxUint16 {
		return nil, fmt.Errorf("content type of %d bytes: %w", len(v.contentType), ErrBadFrame)
	}
	frame := make([]byte, 2+len(v.contentType)+len(v.data))
	binary.BigEndian.PutUint16(frame, uint16(len(v.contentType)))
	copy(frame[2:], v.contentType)
	copy(frame[2+len(v.contentType):], v.data)
	return frame, nil
}

// decodeFrame parses a frame produced by encodeFrame and re-runs
// classification, so image values come back with their decoded bitmap.
func decodeFrame(frame []byte) (Value, error) {
	if len(frame) < 2 {
		return Value{}, fmt.Errorf("frame of %d bytes: %w", len(frame), ErrBadFrame)
	}
	n := int(binary.BigEndian.Uint16(frame))
	if len(frame) < 2+n {
		return Value{}, fmt.Errorf("content type truncated at %d bytes: %w", len(frame)-2, ErrBadFrame)
	}
	return Classify(string(frame[2:2+n]), frame[2+n:])
}

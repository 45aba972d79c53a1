package kv

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/nicolagi/imagekv/storage"
	"github.com/nicolagi/imagekv/transform"
)

var (
	// ErrNotImage indicates an image operation requested for an opaque value.
	ErrNotImage = errors.New("not an image")

	// ErrEmptyKey indicates a write or read with an empty key.
	ErrEmptyKey = errors.New("empty key")
)

// Thumbnails fit within this bounding box, preserving aspect ratio.
const (
	thumbnailWidth  = 100
	thumbnailHeight = 100
)

// Store maps client-chosen string keys to classified values on top of a
// swappable byte-level backend. It is the single long-lived mutable object in
// the process: construct one at startup and hand it to every request handler.
//
// A single readers-writer lock guards the whole store. Any number of readers
// proceed concurrently, a writer excludes everybody. There is no per-key
// locking; latency under load scales with total traffic, which is fine at the
// intended scale.
type Store struct {
	mu      sync.RWMutex
	backend storage.Store
}

func NewStore(backend storage.Store) *Store {
	return &Store{backend: backend}
}

// Write classifies the payload and stores it under key, overwriting any
// previous value entirely.
func (s *Store) Write(key, contentType string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	value, err := Classify(contentType, data)
	if err != nil {
		return err
	}
	frame, err := value.encodeFrame()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Put(key, frame)
}

// Read returns the current value for key, or an error wrapping
// storage.ErrNotFound if the key was never written.
func (s *Store) Read(key string) (Value, error) {
	if key == "" {
		return Value{}, ErrEmptyKey
	}
	s.mu.RLock()
	frame, err := s.backend.Get(key)
	s.mu.RUnlock()
	if err != nil {
		return Value{}, err
	}
	return decodeFrame(frame)
}

// Grayscale returns the value at key converted to grayscale and re-encoded
// as PNG. Fails with ErrNotImage for opaque values.
func (s *Store) Grayscale(key string) ([]byte, error) {
	img, err := s.readImage(key)
	if err != nil {
		return nil, err
	}
	return transform.EncodePNG(transform.Grayscale(img))
}

// Blur returns the value at key blurred with the given standard deviation
// and re-encoded as PNG. A sigma of zero or less leaves the image unchanged.
func (s *Store) Blur(key string, sigma float64) ([]byte, error) {
	img, err := s.readImage(key)
	if err != nil {
		return nil, err
	}
	return transform.EncodePNG(transform.Blur(img, sigma))
}

// Thumbnail returns the value at key resized to fit within 100x100,
// preserving aspect ratio, re-encoded as PNG.
func (s *Store) Thumbnail(key string) ([]byte, error) {
	img, err := s.readImage(key)
	if err != nil {
		return nil, err
	}
	return transform.EncodePNG(transform.Thumbnail(img, thumbnailWidth, thumbnailHeight))
}

func (s *Store) readImage(key string) (image.Image, error) {
	value, err := s.Read(key)
	if err != nil {
		return nil, err
	}
	img, ok := value.Image()
	if !ok {
		return nil, fmt.Errorf("%.40q holds %q: %w", key, value.ContentType(), ErrNotImage)
	}
	return img, nil
}

package kv_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/nicolagi/imagekv/kv"
	"github.com/nicolagi/imagekv/storage"
	"github.com/nicolagi/imagekv/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReadAbsentKey(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	_, err := store.Read("never-written")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestStoreRoundTrip(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	require.Nil(t, store.Write("greeting", "text/plain", []byte("Hello World")))
	value, err := store.Read("greeting")
	require.Nil(t, err)
	assert.Equal(t, "text/plain", value.ContentType())
	assert.Equal(t, []byte("Hello World"), value.Bytes())
}

func TestStoreImageRoundTripIsVerbatim(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	original := pngBytes(t, 8, 4)
	require.Nil(t, store.Write("pic", "image/png", original))
	value, err := store.Read("pic")
	require.Nil(t, err)
	_, isImage := value.Image()
	assert.True(t, isImage)
	assert.Equal(t, "image/png", value.ContentType())
	assert.Equal(t, original, value.Bytes())
}

func TestStoreOverwrite(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	require.Nil(t, store.Write("k", "text/plain", []byte("first")))
	require.Nil(t, store.Write("k", "text/plain", []byte("second")))
	value, err := store.Read("k")
	require.Nil(t, err)
	assert.Equal(t, []byte("second"), value.Bytes())
}

func TestStoreEmptyKey(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	err := store.Write("", "text/plain", []byte("x"))
	assert.True(t, errors.Is(err, kv.ErrEmptyKey))
	_, err = store.Read("")
	assert.True(t, errors.Is(err, kv.ErrEmptyKey))
}

func TestStoreRejectsUndecodableImage(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	err := store.Write("bad", "image/png", []byte("garbage"))
	assert.True(t, errors.Is(err, kv.ErrInvalidImage))
	// The rejected write must not have left anything behind.
	_, err = store.Read("bad")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestStoreTransformsOnOpaqueValue(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	require.Nil(t, store.Write("text", "text/plain", []byte("Hello World")))
	_, err := store.Grayscale("text")
	assert.True(t, errors.Is(err, kv.ErrNotImage))
	_, err = store.Blur("text", 1.5)
	assert.True(t, errors.Is(err, kv.ErrNotImage))
	_, err = store.Thumbnail("text")
	assert.True(t, errors.Is(err, kv.ErrNotImage))
}

func TestStoreTransformsOnAbsentKey(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	_, err := store.Grayscale("missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	_, err = store.Blur("missing", 1.5)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	_, err = store.Thumbnail("missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestStoreGrayscale(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	original := pngBytes(t, 8, 4)
	require.Nil(t, store.Write("pic", "image/png", original))
	got, err := store.Grayscale("pic")
	require.Nil(t, err)
	decoded, err := imaging.Decode(bytes.NewReader(original))
	require.Nil(t, err)
	want, err := transform.EncodePNG(transform.Grayscale(decoded))
	require.Nil(t, err)
	assert.Equal(t, want, got)
}

func TestStoreBlurWithNonPositiveSigma(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	original := pngBytes(t, 8, 4)
	require.Nil(t, store.Write("pic", "image/png", original))
	got, err := store.Blur("pic", -3)
	require.Nil(t, err)
	decoded, err := imaging.Decode(bytes.NewReader(original))
	require.Nil(t, err)
	want, err := transform.EncodePNG(transform.Blur(decoded, 0))
	require.Nil(t, err)
	assert.Equal(t, want, got)
}

func TestStoreThumbnail(t *testing.T) {
	store := kv.NewStore(storage.NewMemoryStore())
	require.Nil(t, store.Write("pic", "image/png", pngBytes(t, 300, 150)))
	got, err := store.Thumbnail("pic")
	require.Nil(t, err)
	decoded, err := png.Decode(bytes.NewReader(got))
	require.Nil(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 50, decoded.Bounds().Dy())
}

func TestStoreUnavailableBackend(t *testing.T) {
	store := kv.NewStore(downStore{})
	err := store.Write("k", "text/plain", []byte("x"))
	assert.True(t, errors.Is(err, storage.ErrUnavailable))
	_, err = store.Read("k")
	assert.True(t, errors.Is(err, storage.ErrUnavailable))
	_, err = store.Grayscale("k")
	assert.True(t, errors.Is(err, storage.ErrUnavailable))
}

// downStore fails every operation, like a remote backend that can't be
// reached.
type downStore struct{}

func (downStore) Put(key string, value []byte) error { return storage.ErrUnavailable }

func (downStore) Get(key string) ([]byte, error) { return nil, storage.ErrUnavailable }

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(37 * x), G: uint8(53 * y), B: uint8(11 * (x + y)), A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.Nil(t, png.Encode(&buf, img))
	return buf.Bytes()
}

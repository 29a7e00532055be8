package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestPNG produces a small gradient PNG for blurhash tests.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / width), G: uint8(y * 255 / height), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestComputeBlurHash(t *testing.T) {
	data := encodeTestPNG(t, 200, 300)

	hash, err := ComputeBlurHash(data)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Same input produces the same hash.
	hash2, err := ComputeBlurHash(data)
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)
}

func TestComputeBlurHash_SmallImage(t *testing.T) {
	// Smaller than the thumbnail size; used as-is.
	data := encodeTestPNG(t, 16, 16)

	hash, err := ComputeBlurHash(data)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHash_InvalidData(t *testing.T) {
	hash, err := ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
	assert.Empty(t, hash)
}

func TestResizeForBlurHash_AspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))

	thumb := resizeForBlurHash(img)
	bounds := thumb.Bounds()

	assert.Equal(t, 64, bounds.Dx())
	assert.Equal(t, 32, bounds.Dy())
}

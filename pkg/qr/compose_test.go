package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchURL = "https://example.com/watch/a1b2c3d4e5f6g7h8"

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func samplePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestComposeBareQR(t *testing.T) {
	c := NewComposer()

	out, err := c.Compose(watchURL, "", nil)
	require.NoError(t, err)

	img := decodePNG(t, out)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestComposeWithThumbnail(t *testing.T) {
	c := NewComposer()

	out, err := c.Compose(watchURL, "", samplePNG(t))
	require.NoError(t, err)

	img := decodePNG(t, out)

	// Center pixel belongs to the thumbnail inset, not to a QR module
	center := img.At(256, 256)
	r, g, b, _ := center.RGBA()
	assert.True(t, r>>8 > 150 && g>>8 < 100 && b>>8 < 100, "center should show the red thumbnail, got %v", center)
}

func TestComposeWithCaption(t *testing.T) {
	c := NewComposer()

	out, err := c.Compose(watchURL, "watch a1b2c3d4", nil)
	require.NoError(t, err)

	img := decodePNG(t, out)
	assert.Greater(t, img.Bounds().Dy(), 512, "caption strip should extend the canvas")
}

func TestComposeCorruptThumbnailDegrades(t *testing.T) {
	c := NewComposer()

	out, err := c.Compose(watchURL, "", []byte("definitely not an image"))
	require.NoError(t, err, "corrupt thumbnail must not fail the whole composition")

	img := decodePNG(t, out)
	assert.Equal(t, 512, img.Bounds().Dx())
}

func TestComposeUnrenderableCaptionDoesNotFail(t *testing.T) {
	c := NewComposer()

	out, err := c.Compose(watchURL, strings.Repeat("기초안전교육", 50), samplePNG(t))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestASCIICaption(t *testing.T) {
	assert.True(t, ASCIICaption("watch a1b2c3d4"))
	assert.False(t, ASCIICaption("기초 안전교육"))
	assert.False(t, ASCIICaption(""))
	assert.False(t, ASCIICaption("mixed 교육"))
}

func TestPlaceholderCaption(t *testing.T) {
	assert.Equal(t, "watch a1b2c3d4e5f6", PlaceholderCaption("a1b2c3d4e5f6g7h8"))
	assert.Equal(t, "watch short", PlaceholderCaption("short"))
}

package validators

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, name string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return p
}

func TestImageFileAcceptsPNG(t *testing.T) {
	p := writePNG(t, "thumb.png")
	assert.NoError(t, ImageFile(p))
}

func TestImageFileRejectsWrongExtension(t *testing.T) {
	p := writePNG(t, "thumb.txt")

	err := ImageFile(p)
	assert.ErrorIs(t, err, ErrFileTypeUnsupported)
}

func TestVideoFileRejectsRenamedImage(t *testing.T) {
	// A PNG with a video extension must fail the content sniff
	p := writePNG(t, "video.mp4")

	err := VideoFile(p)
	assert.ErrorIs(t, err, ErrFileTypeUnsupported)
}

func TestVideoFileRejectsEmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.mp4")
	require.NoError(t, os.WriteFile(p, nil, 0o644))

	err := VideoFile(p)
	assert.ErrorIs(t, err, ErrFileEmpty)
}

func TestVideoFileRejectsMissingPath(t *testing.T) {
	assert.ErrorIs(t, VideoFile(""), ErrNoFile)
	assert.ErrorIs(t, VideoFile(filepath.Join(t.TempDir(), "nope.mp4")), ErrNoFile)
}

func TestImageFileRejectsOversize(t *testing.T) {
	viper.Set("upload.max_size", int64(10))
	defer viper.Set("upload.max_size", int64(0))

	p := writePNG(t, "big.png")

	err := ImageFile(p)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestContentTypeLookups(t *testing.T) {
	assert.Equal(t, "video/webm", VideoContentType(".webm"))
	assert.Equal(t, "video/mp4", VideoContentType(".unknown"))
	assert.Equal(t, "image/png", ImageContentType(".PNG"))
	assert.Equal(t, "image/jpeg", ImageContentType(""))
}

// Package validators checks uploads before any storage I/O happens
package validators

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrNoFile              = errors.New("no file provided")
	ErrFileEmpty           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
)

// Content types by extension. Doubles as the format allow-list: an
// extension missing here is rejected outright.
var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// VideoContentType returns the content type for a video extension,
// defaulting to video/mp4 for anything unexpected
func VideoContentType(ext string) string {
	if ct, ok := videoContentTypes[strings.ToLower(ext)]; ok {
		return ct
	}

	return "video/mp4"
}

// ImageContentType returns the content type for an image extension,
// defaulting to image/jpeg
func ImageContentType(ext string) string {
	if ct, ok := imageContentTypes[strings.ToLower(ext)]; ok {
		return ct
	}

	return "image/jpeg"
}

// VideoFile validates a video file already saved to local disk: allowed
// extension, non-empty, under the configured size cap, and actually
// video/audio content rather than a renamed payload.
func VideoFile(p string) error {
	return validate(p, videoContentTypes, "video")
}

// ImageFile validates a thumbnail image on local disk
func ImageFile(p string) error {
	return validate(p, imageContentTypes, "image")
}

func validate(p string, allowed map[string]string, kind string) error {
	if p == "" {
		return ErrNoFile
	}

	ext := strings.ToLower(path.Ext(p))
	if _, ok := allowed[ext]; !ok {
		return fmt.Errorf("%w: %s is not an allowed %s extension", ErrFileTypeUnsupported, ext, kind)
	}

	stat, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoFile, err)
	}

	if stat.Size() == 0 {
		return ErrFileEmpty
	}

	if max := viper.GetInt64("upload.max_size"); max > 0 && stat.Size() > max {
		return fmt.Errorf("%w: %d bytes over the %d byte limit", ErrFileTooLarge, stat.Size()-max, max)
	}

	// Header checks are cheap to spoof, so sniff the actual bytes too
	mime, err := mimetype.DetectFile(p)
	if err != nil {
		return fmt.Errorf("failed to sniff file type, %w", err)
	}

	prefix := kind + "/"
	if !strings.HasPrefix(mime.String(), prefix) {
		return fmt.Errorf("%w: content sniffed as %s", ErrFileTypeUnsupported, mime.String())
	}

	return nil
}

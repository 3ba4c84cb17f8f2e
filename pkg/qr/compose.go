// Package qr synthesizes the permanent watch-link QR image: a high
// error-correction QR code, optionally with a circular thumbnail inset and
// a caption strip below it.
package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/nfnt/resize"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	_ "image/gif"
	_ "image/jpeg"
)

const (
	qrSize = 512

	captionHeight = 48
	captionMargin = 8
	maxCaptionLen = 40
)

type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose renders the QR image for watchURL. thumb may be nil; caption may
// be empty. Both are best effort: a corrupt thumbnail or an unrenderable
// caption degrades the output instead of failing it. Only a broken URL can
// make Compose return an error.
func (c *Composer) Compose(watchURL, caption string, thumb []byte) ([]byte, error) {
	// Highest error correction so the code stays scannable with up to ~25%
	// of its center covered by the thumbnail inset.
	code, err := qrcode.New(watchURL, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("failed to build QR code, %w", err)
	}

	base := code.Image(qrSize)

	canvas := image.NewRGBA(base.Bounds())
	draw.Draw(canvas, canvas.Bounds(), base, image.Point{}, draw.Src)

	if thumb != nil {
		if err := insetThumbnail(canvas, thumb); err != nil {
			zap.L().Warn("Thumbnail inset failed, keeping bare QR", zap.Error(err))
		}
	}

	out := canvas
	if caption != "" {
		out = addCaption(canvas, caption)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode QR image, %w", err)
	}

	return buf.Bytes(), nil
}

// insetThumbnail pastes a circularly masked thumbnail, on a slightly larger
// white circular backing, into the center of the QR canvas
func insetThumbnail(canvas *image.RGBA, thumb []byte) error {
	src, _, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		return fmt.Errorf("failed to decode thumbnail, %w", err)
	}

	size := canvas.Bounds().Dx() / 4
	scaled := resize.Resize(uint(size), uint(size), src, resize.Lanczos3)

	cx := canvas.Bounds().Dx() / 2
	cy := canvas.Bounds().Dy() / 2

	// White backing preserves contrast against the QR modules around the inset
	backing := size/2 + 6
	drawDisc(canvas, cx, cy, backing, color.White)

	mask := &circleMask{cx: size / 2, cy: size / 2, r: size / 2}
	offset := image.Pt(cx-size/2, cy-size/2)
	draw.DrawMask(canvas, image.Rect(offset.X, offset.Y, offset.X+size, offset.Y+size),
		scaled, image.Point{}, mask, image.Point{}, draw.Over)

	return nil
}

// addCaption extends the canvas with a white strip below the QR code and
// centers the caption in it. Captions the bitmap font can't render are
// replaced by the caller-side placeholder before we get here; anything that
// still fails degrades to the plain canvas.
func addCaption(canvas *image.RGBA, caption string) *image.RGBA {
	if len(caption) > maxCaptionLen {
		caption = caption[:maxCaptionLen-3] + "..."
	}

	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()

	out := image.NewRGBA(image.Rect(0, 0, w, h+captionHeight+captionMargin))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, canvas.Bounds(), canvas, image.Point{}, draw.Src)

	face := basicfont.Face7x13

	d := &font.Drawer{
		Dst:  out,
		Src:  image.Black,
		Face: face,
	}

	width := d.MeasureString(caption).Ceil()
	x := (w - width) / 2
	if x < 0 {
		x = 0
	}

	d.Dot = fixed.P(x, h+captionMargin+face.Ascent)
	d.DrawString(caption)

	return out
}

// ASCIICaption reports whether the bitmap caption font can render every
// rune of s
func ASCIICaption(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}

	return s != ""
}

// PlaceholderCaption derives a renderable ASCII caption from an entity ID,
// for titles the caption font can't draw
func PlaceholderCaption(entityID string) string {
	if len(entityID) > 12 {
		entityID = entityID[:12]
	}

	return "watch " + entityID
}

func drawDisc(img *image.RGBA, cx, cy, r int, c color.Color) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				img.Set(cx+x, cy+y, c)
			}
		}
	}
}

// circleMask is an alpha mask that is opaque inside a circle
type circleMask struct {
	cx, cy, r int
}

func (c *circleMask) ColorModel() color.Model {
	return color.AlphaModel
}

func (c *circleMask) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.r*2, c.r*2)
}

func (c *circleMask) At(x, y int) color.Color {
	dx := x - c.cx
	dy := y - c.cy

	if dx*dx+dy*dy <= c.r*c.r {
		return color.Alpha{A: 255}
	}

	return color.Alpha{}
}

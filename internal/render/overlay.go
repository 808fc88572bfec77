// Package render draws segment bounding boxes over a record's photo.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/jengzang/photomap-backend-go/internal/models"
	"github.com/jengzang/photomap-backend-go/internal/viewer"
)

// ErrImageNotFound is returned when a record's photo is missing on disk
var ErrImageNotFound = errors.New("image not found")

// ErrUnsupportedFormat is returned for unknown output formats
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Overlay drawing settings
const (
	FillAlpha    = 200
	OutlineWidth = 2
	LabelPadding = 4
)

// Format is an output encoding
type Format string

// Supported output formats
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// ParseFormat maps a query value to a Format; empty means PNG
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type for f
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	}
	return "image/png"
}

// Renderer loads photos from disk and draws overlays on them
type Renderer struct {
	root    string
	palette *viewer.Palette
	quality int
}

// NewRenderer creates a renderer resolving relative image paths against root
func NewRenderer(root string, palette *viewer.Palette, quality int) *Renderer {
	if quality < 1 || quality > 100 {
		quality = 85
	}
	return &Renderer{root: root, palette: palette, quality: quality}
}

// Resolve returns the on-disk path of a record's photo
func (r *Renderer) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.root, filepath.FromSlash(path))
}

// Render writes rec's photo with segments drawn on top
func (r *Renderer) Render(w io.Writer, rec models.ImageRecord, segments []models.Segment, format Format) error {
	img, err := imaging.Open(r.Resolve(rec.Path), imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrImageNotFound, rec.Path)
		}
		return fmt.Errorf("failed to open image %s: %w", rec.Path, err)
	}

	return r.Encode(w, r.Draw(img, segments), format)
}

// Draw returns a copy of img with each segment drawn as a translucent box
// with an opaque outline and an upper-case category label.
func (r *Renderer) Draw(img image.Image, segments []models.Segment) *image.NRGBA {
	dst := imaging.Clone(img)
	bounds := dst.Bounds()

	for _, seg := range segments {
		// Box edges are inclusive
		rect := image.Rect(int(seg.XMin), int(seg.YMin), int(seg.XMax)+1, int(seg.YMax)+1).Intersect(bounds)
		if rect.Empty() {
			continue
		}

		c := r.palette.RGBA(seg.Category)
		fill := color.NRGBA{R: c.R, G: c.G, B: c.B, A: FillAlpha}
		draw.Draw(dst, rect, image.NewUniform(fill), image.Point{}, draw.Over)
		drawOutline(dst, rect, c)
		drawLabel(dst, rect.Min, strings.ToUpper(seg.Category))
	}

	return dst
}

// Encode writes img in the requested format
func (r *Renderer) Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(r.quality))
	case FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Quality: float32(r.quality)})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

func drawOutline(dst draw.Image, rect image.Rectangle, c color.RGBA) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+OutlineWidth),
		image.Rect(rect.Min.X, rect.Max.Y-OutlineWidth, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+OutlineWidth, rect.Max.Y),
		image.Rect(rect.Max.X-OutlineWidth, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(rect), src, image.Point{}, draw.Src)
	}
}

func drawLabel(dst draw.Image, at image.Point, label string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(at.X+LabelPadding, at.Y+LabelPadding+face.Ascent),
	}
	d.DrawString(label)
}

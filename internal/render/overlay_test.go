package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jengzang/photomap-backend-go/internal/models"
	"github.com/jengzang/photomap-backend-go/internal/viewer"
)

// createTestImage creates a flat grey test image
func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{64, 64, 64, 255})
		}
	}
	return img
}

func writeTestImage(t *testing.T, dir, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, createTestImage(100, 80)); err != nil {
		t.Fatal(err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatPNG, true},
		{"PNG", FormatPNG, true},
		{"jpg", FormatJPEG, true},
		{"jpeg", FormatJPEG, true},
		{"webp", FormatWebP, true},
		{"gif", "", false},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseFormat(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q) expected ErrUnsupportedFormat, got %v", tt.in, err)
		}
	}

	if FormatWebP.ContentType() != "image/webp" || FormatPNG.ContentType() != "image/png" {
		t.Error("Unexpected content types")
	}
}

func TestDraw(t *testing.T) {
	r := NewRenderer("", viewer.NewPalette(nil), 85)
	src := createTestImage(100, 80)

	out := r.Draw(src, []models.Segment{
		{Category: "car", XMin: 10, XMax: 60, YMin: 10, YMax: 50, Confidence: 0.9},
		{Category: "bike", XMin: 500, XMax: 600, YMin: 500, YMax: 600},
	})

	if out.Bounds() != src.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", src.Bounds(), out.Bounds())
	}

	// Outline pixels carry the opaque category color
	if got := out.NRGBAAt(30, 10); got != (color.NRGBA{R: 0xC0, A: 255}) {
		t.Errorf("Expected car outline at top edge, got %+v", got)
	}

	// Interior is tinted towards red
	inner := out.NRGBAAt(30, 45)
	if inner.R <= 64 || inner.G >= 64 {
		t.Errorf("Expected red tint inside box, got %+v", inner)
	}

	// Outside the box is untouched
	if got := out.NRGBAAt(80, 70); got != (color.NRGBA{64, 64, 64, 255}) {
		t.Errorf("Expected untouched background, got %+v", got)
	}

	// The x_max column and y_max row belong to the box
	if got := out.NRGBAAt(60, 30); got != (color.NRGBA{R: 0xC0, A: 255}) {
		t.Errorf("Expected car outline on column x_max, got %+v", got)
	}
	if got := out.NRGBAAt(30, 50); got != (color.NRGBA{R: 0xC0, A: 255}) {
		t.Errorf("Expected car outline on row y_max, got %+v", got)
	}
	if got := out.NRGBAAt(61, 30); got != (color.NRGBA{64, 64, 64, 255}) {
		t.Errorf("Expected background right of the box, got %+v", got)
	}
	if got := out.NRGBAAt(30, 51); got != (color.NRGBA{64, 64, 64, 255}) {
		t.Errorf("Expected background below the box, got %+v", got)
	}

	// The source image is not modified
	if got := src.RGBAAt(30, 10); got != (color.RGBA{64, 64, 64, 255}) {
		t.Errorf("Source image was modified: %+v", got)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "photo.png")
	r := NewRenderer(dir, viewer.NewPalette(nil), 85)

	var buf bytes.Buffer
	rec := models.ImageRecord{Path: "photo.png"}
	if err := r.Render(&buf, rec, []models.Segment{{Category: "bus", XMax: 20, YMax: 20}}, FormatPNG); err != nil {
		t.Fatalf("Error rendering: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Error decoding output: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Errorf("Unexpected output size %v", img.Bounds())
	}

	buf.Reset()
	if err := r.Render(&buf, rec, nil, FormatJPEG); err != nil {
		t.Fatalf("Error rendering jpeg: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0xFF, 0xD8}) {
		t.Error("Expected JPEG magic bytes")
	}
}

func TestRenderMissingImage(t *testing.T) {
	r := NewRenderer(t.TempDir(), viewer.NewPalette(nil), 85)

	var buf bytes.Buffer
	err := r.Render(&buf, models.ImageRecord{Path: "absent.jpg"}, nil, FormatPNG)
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Expected ErrImageNotFound, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	r := NewRenderer("/srv/photos", nil, 0)
	if got := r.Resolve("data/dam.jpg"); got != filepath.Join("/srv/photos", "data", "dam.jpg") {
		t.Errorf("Unexpected relative resolution: %s", got)
	}
	if got := r.Resolve("/abs/dam.jpg"); got != "/abs/dam.jpg" {
		t.Errorf("Unexpected absolute resolution: %s", got)
	}
}

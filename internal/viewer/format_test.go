package viewer

import (
	"testing"

	"github.com/jengzang/photomap-backend-go/internal/models"
)

func TestFormatMetadata(t *testing.T) {
	got := FormatMetadata(&models.Metadata{
		Index: 0, Longitude: 4.9009338, Latitude: 52.37294,
		Path: "data/183375246977980.jpg", SegmentCount: 1,
	})
	want := "**Image 1**\n- Lon: 4.900934\n- Lat: 52.372940\n- File: data/183375246977980.jpg\n- Segments: 1"
	if got != want {
		t.Errorf("FormatMetadata() =\n%s\nwant\n%s", got, want)
	}

	got = FormatMetadata(&models.Metadata{Index: 1, Path: "data/dam.jpg"})
	want = "**Image 2**\n- Lon: 0.000000\n- Lat: 0.000000\n- File: data/dam.jpg\n- Segments: None"
	if got != want {
		t.Errorf("FormatMetadata() =\n%s\nwant\n%s", got, want)
	}

	if got := FormatMetadata(nil); got != NoImagesText {
		t.Errorf("Expected %q for nil metadata, got %q", NoImagesText, got)
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := map[float64]string{0: "0%", 0.5: "50%", 0.87: "87%", 1: "100%"}
	for in, want := range tests {
		if got := FormatConfidence(in); got != want {
			t.Errorf("FormatConfidence(%v) = %s, want %s", in, got, want)
		}
	}
}

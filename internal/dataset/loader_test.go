package dataset

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

const sampleIndex = `{
  "images": [
    {"image": "data/183375246977980.jpg", "longitude": 4.9009338, "latitude": 52.37294,
     "segments": [
       {"category": "bike", "x_min": 181, "x_max": 355, "y_min": 560, "y_max": 673, "confidence": 0.5}
     ]},
    {"image": "data/dam.jpg", "longitude": 4.893212, "latitude": 52.372936, "segments": []}
  ],
  "categories": {"bike": {"color": "blue"}}
}`

func TestDecode(t *testing.T) {
	ds, err := NewLoader(discardLogger).Decode(strings.NewReader(sampleIndex))
	if err != nil {
		t.Fatalf("Error decoding dataset: %v", err)
	}

	if len(ds.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(ds.Records))
	}

	first := ds.Records[0]
	if first.Path != "data/183375246977980.jpg" || first.Longitude != 4.9009338 || first.Latitude != 52.37294 {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if len(first.Segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(first.Segments))
	}
	if seg := first.Segments[0]; seg.Category != "bike" || seg.XMin != 181 || seg.YMax != 673 || seg.Confidence != 0.5 {
		t.Errorf("Unexpected segment: %+v", seg)
	}

	if len(ds.Records[1].Segments) != 0 {
		t.Errorf("Expected no segments on second record, got %d", len(ds.Records[1].Segments))
	}
	if ds.Categories["bike"].Color != "blue" {
		t.Errorf("Expected bike category color 'blue', got %q", ds.Categories["bike"].Color)
	}
}

func TestDecodeSkipsMalformedEntries(t *testing.T) {
	doc := `{"images": [
		{"image": "", "longitude": 1, "latitude": 1},
		{"image": "nocoords.jpg"},
		{"image": "badlat.jpg", "longitude": 1, "latitude": 91},
		{"image": "badlon.jpg", "longitude": -181, "latitude": 1},
		{"image": "ok.jpg", "longitude": 1, "latitude": 2, "segments": [
			{"category": "car", "x_min": 10, "x_max": 5, "y_min": 0, "y_max": 1},
			{"category": "car", "x_min": 0, "x_max": 5, "y_min": 3, "y_max": 1},
			{"category": "car", "x_min": 0, "x_max": 5, "y_min": 0, "y_max": 1, "confidence": 1.5},
			{"category": "", "x_min": 0, "x_max": 5, "y_min": 0, "y_max": 1},
			{"category": "bus", "x_min": 0, "x_max": 5, "y_min": 0, "y_max": 1}
		]}
	]}`

	ds, err := NewLoader(discardLogger).Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Error decoding dataset: %v", err)
	}

	if len(ds.Records) != 1 || ds.Records[0].Path != "ok.jpg" {
		t.Fatalf("Expected only ok.jpg to survive, got %+v", ds.Records)
	}

	segs := ds.Records[0].Segments
	if len(segs) != 1 || segs[0].Category != "bus" {
		t.Fatalf("Expected only the bus segment to survive, got %+v", segs)
	}
	if segs[0].Confidence != DefaultConfidence {
		t.Errorf("Expected default confidence %v, got %v", DefaultConfidence, segs[0].Confidence)
	}
	if ds.Categories == nil {
		t.Error("Expected non-nil categories map")
	}
}

func TestDecodeSkipsMistypedEntries(t *testing.T) {
	doc := `{"images": [
		{"image": "ok.jpg", "longitude": 4.9, "latitude": 52.37, "segments": [
			{"category": "bike", "x_min": "wide", "x_max": 5, "y_min": 0, "y_max": 1},
			{"category": "car", "x_min": 0, "x_max": 5, "y_min": 0, "y_max": 1, "confidence": 0.8}
		]},
		{"image": "bad.jpg", "longitude": "oops", "latitude": 52.37},
		"not a record",
		{"image": "badsegments.jpg", "longitude": 1, "latitude": 1, "segments": {"category": "car"}}
	], "categories": {"car": {"color": "red"}, "bike": {"color": 7}}}`

	ds, err := NewLoader(discardLogger).Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Expected mistyped entries to be skipped, got error: %v", err)
	}

	if len(ds.Records) != 1 || ds.Records[0].Path != "ok.jpg" {
		t.Fatalf("Expected only ok.jpg to survive, got %+v", ds.Records)
	}
	if segs := ds.Records[0].Segments; len(segs) != 1 || segs[0].Category != "car" {
		t.Errorf("Expected only the car segment to survive, got %+v", segs)
	}

	if ds.Categories["car"].Color != "red" {
		t.Errorf("Expected car color red, got %+v", ds.Categories["car"])
	}
	if _, ok := ds.Categories["bike"]; ok {
		t.Error("Expected mistyped bike category to be skipped")
	}
}

func TestLoadOrEmptyMissingFile(t *testing.T) {
	ds := NewLoader(discardLogger).LoadOrEmpty(filepath.Join(t.TempDir(), "absent.json"))
	if ds == nil || !ds.Empty() {
		t.Fatalf("Expected empty dataset, got %+v", ds)
	}
}

func TestLoadOrEmptyMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte(`{"images": [`), 0644); err != nil {
		t.Fatal(err)
	}

	ds := NewLoader(discardLogger).LoadOrEmpty(path)
	if !ds.Empty() {
		t.Errorf("Expected empty dataset for malformed file, got %d records", len(ds.Records))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte(sampleIndex), 0644); err != nil {
		t.Fatal(err)
	}

	ds, err := NewLoader(discardLogger).Load(path)
	if err != nil {
		t.Fatalf("Error loading dataset: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(ds.Records))
	}

	if _, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

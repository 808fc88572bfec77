// Package dataset reads the image/segment index the viewer is built on.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jengzang/photomap-backend-go/internal/models"
)

// DefaultConfidence applies to segments that omit a confidence score
const DefaultConfidence = 1.0

// Entries are decoded individually in Decode
type rawDataset struct {
	Images     []json.RawMessage          `json:"images"`
	Categories map[string]json.RawMessage `json:"categories"`
}

type rawRecord struct {
	Image     string            `json:"image"`
	Longitude *float64          `json:"longitude"`
	Latitude  *float64          `json:"latitude"`
	Segments  []json.RawMessage `json:"segments"`
}

type rawSegment struct {
	Category   string   `json:"category"`
	XMin       float64  `json:"x_min"`
	XMax       float64  `json:"x_max"`
	YMin       float64  `json:"y_min"`
	YMax       float64  `json:"y_max"`
	Confidence *float64 `json:"confidence"`
}

// Loader decodes and validates dataset documents
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader that reports skipped entries to logger
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads a dataset file
func (l *Loader) Load(path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return l.Decode(f)
}

// LoadOrEmpty reads a dataset file, substituting an empty dataset on any failure
func (l *Loader) LoadOrEmpty(path string) *models.Dataset {
	ds, err := l.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Dataset file not found, no images loaded", "path", path)
		} else {
			l.logger.Error("Unable to load dataset, no images loaded", "path", path, "err", err)
		}
		return &models.Dataset{Categories: map[string]models.Category{}}
	}

	l.logger.Info("Dataset loaded", "path", path, "images", len(ds.Records), "categories", len(ds.Categories))
	return ds
}

// Decode reads a dataset document, dropping malformed records, segments and
// categories. Only a document that is not a JSON object of the expected shape
// is an error.
func (l *Loader) Decode(r io.Reader) (*models.Dataset, error) {
	var raw rawDataset
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	ds := &models.Dataset{
		Records:    make([]models.ImageRecord, 0, len(raw.Images)),
		Categories: make(map[string]models.Category, len(raw.Categories)),
	}

	for name, rc := range raw.Categories {
		var cat models.Category
		if err := json.Unmarshal(rc, &cat); err != nil {
			l.logger.Warn("Skipping category", "category", name, "err", err)
			continue
		}
		ds.Categories[name] = cat
	}

	for i, msg := range raw.Images {
		var rr rawRecord
		if err := json.Unmarshal(msg, &rr); err != nil {
			l.logger.Warn("Skipping image record", "position", i, "err", err)
			continue
		}

		rec, err := validateRecord(rr)
		if err != nil {
			l.logger.Warn("Skipping image record", "position", i, "image", rr.Image, "err", err)
			continue
		}

		for j, msg := range rr.Segments {
			var rs rawSegment
			if err := json.Unmarshal(msg, &rs); err != nil {
				l.logger.Warn("Skipping segment", "image", rr.Image, "position", j, "err", err)
				continue
			}

			seg, err := validateSegment(rs)
			if err != nil {
				l.logger.Warn("Skipping segment", "image", rr.Image, "position", j, "err", err)
				continue
			}
			rec.Segments = append(rec.Segments, seg)
		}

		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func validateRecord(rr rawRecord) (models.ImageRecord, error) {
	if rr.Image == "" {
		return models.ImageRecord{}, errors.New("missing image path")
	}
	if rr.Longitude == nil || rr.Latitude == nil {
		return models.ImageRecord{}, errors.New("missing coordinates")
	}
	if *rr.Latitude < -90 || *rr.Latitude > 90 {
		return models.ImageRecord{}, fmt.Errorf("latitude %f out of range", *rr.Latitude)
	}
	if *rr.Longitude < -180 || *rr.Longitude > 180 {
		return models.ImageRecord{}, fmt.Errorf("longitude %f out of range", *rr.Longitude)
	}

	return models.ImageRecord{
		Path:      rr.Image,
		Longitude: *rr.Longitude,
		Latitude:  *rr.Latitude,
		Segments:  make([]models.Segment, 0, len(rr.Segments)),
	}, nil
}

func validateSegment(rs rawSegment) (models.Segment, error) {
	if rs.Category == "" {
		return models.Segment{}, errors.New("missing category")
	}
	if rs.XMax < rs.XMin || rs.YMax < rs.YMin {
		return models.Segment{}, fmt.Errorf("inverted bounding box (%g,%g)-(%g,%g)", rs.XMin, rs.YMin, rs.XMax, rs.YMax)
	}

	confidence := DefaultConfidence
	if rs.Confidence != nil {
		confidence = *rs.Confidence
	}
	if confidence < 0 || confidence > 1 {
		return models.Segment{}, fmt.Errorf("confidence %g outside [0,1]", confidence)
	}

	return models.Segment{
		Category:   rs.Category,
		XMin:       rs.XMin,
		XMax:       rs.XMax,
		YMin:       rs.YMin,
		YMax:       rs.YMax,
		Confidence: confidence,
	}, nil
}

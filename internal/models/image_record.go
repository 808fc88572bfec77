package models

// Segment represents one detected object bounding box on a photo
type Segment struct {
	Category   string  `json:"category"`
	XMin       float64 `json:"x_min"`
	XMax       float64 `json:"x_max"`
	YMin       float64 `json:"y_min"`
	YMax       float64 `json:"y_max"`
	Confidence float64 `json:"confidence"` // 0~1
}

// ImageRecord represents a geo-tagged photograph and its detected segments
type ImageRecord struct {
	Path      string    `json:"image"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Segments  []Segment `json:"segments"`
}

// Category holds display settings for a segment category
type Category struct {
	Color string `json:"color"`
}

// Dataset is the full set of records loaded at startup
type Dataset struct {
	Records    []ImageRecord       `json:"images"`
	Categories map[string]Category `json:"categories"`
}

// Empty reports whether the dataset holds no records
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

package models

// MapMarker is one map point handed to the map renderer
type MapMarker struct {
	Index     int     `json:"index"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Selected  bool    `json:"selected"`
	Size      int     `json:"size"`
	Color     string  `json:"color"`
	Label     string  `json:"label"`
	Path      string  `json:"path"`
}

// MapView describes where the map should be centered
type MapView struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      int     `json:"zoom"`
}

// Metadata summarises the selected record
type Metadata struct {
	Index        int     `json:"index"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	Path         string  `json:"path"`
	SegmentCount int     `json:"segment_count"`
}

// SegmentRow is one row of the segment table
type SegmentRow struct {
	Index          int     `json:"index"`
	Category       string  `json:"category"`
	Label          string  `json:"label"`
	Color          string  `json:"color"`
	XMin           float64 `json:"x_min"`
	XMax           float64 `json:"x_max"`
	YMin           float64 `json:"y_min"`
	YMax           float64 `json:"y_max"`
	Confidence     float64 `json:"confidence"`
	ConfidenceText string  `json:"confidence_text"`
	Visible        bool    `json:"visible"`
}

// ImageRow is one row of the image table
type ImageRow struct {
	Index        int     `json:"index"`
	Path         string  `json:"path"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	SegmentCount int     `json:"segment_count"`
	Selected     bool    `json:"selected"`
}

// LegendEntry is one category in the color legend
type LegendEntry struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Color    string `json:"color"`
}

// View is everything a client needs to redraw after a state change
type View struct {
	HasRecord       bool         `json:"has_record"`
	SelectedIndex   int          `json:"selected_index"`
	Total           int          `json:"total"`
	Markers         []MapMarker  `json:"markers"`
	Map             MapView      `json:"map"`
	Metadata        *Metadata    `json:"metadata,omitempty"`
	MetadataText    string       `json:"metadata_text"`
	Segments        []SegmentRow `json:"segments"`
	VisibleSegments []Segment    `json:"visible_segments"`
	VisibilityState string       `json:"visibility_state"`
}

// Package viewer holds the per-session viewer state: which record is selected
// and which of its segments are shown. All derived outputs are recomputed on
// demand from that state.
package viewer

import (
	"encoding/json"
	"fmt"

	"github.com/jengzang/photomap-backend-go/internal/models"
	"github.com/jengzang/photomap-backend-go/internal/spatial"
)

// Map display settings
const (
	SelectedMarkerSize  = 18
	MarkerSize          = 12
	SelectedMarkerColor = "#f97316"
	MarkerColor         = "#2563eb"
	SelectedZoom        = 14
	OverviewZoom        = 13
)

// Map center used when no records are loaded
var defaultCenter = spatial.Point{Lat: 52.37, Lon: 4.9}

// State tracks the selected record and its segment visibility.
// It is not safe for concurrent use.
type State struct {
	records  []models.ImageRecord
	palette  *Palette
	selected int
	visible  []bool
}

// New creates a state over the dataset with the first record selected
func New(ds *models.Dataset) *State {
	var (
		records    []models.ImageRecord
		categories map[string]models.Category
	)
	if ds != nil {
		records = ds.Records
		categories = ds.Categories
	}
	return NewWithPalette(records, NewPalette(categories))
}

// NewWithPalette creates a state sharing an existing palette
func NewWithPalette(records []models.ImageRecord, palette *Palette) *State {
	s := &State{records: records, palette: palette}
	s.Select(0)
	return s
}

// Len returns the number of records
func (s *State) Len() int {
	return len(s.records)
}

// SelectedIndex returns the index of the selected record
func (s *State) SelectedIndex() int {
	return s.selected
}

// Select clamps index into range, selects that record and shows all of its segments
func (s *State) Select(index int) {
	if len(s.records) == 0 {
		s.selected = 0
		s.visible = nil
		return
	}

	s.selected = clamp(index, 0, len(s.records)-1)
	s.visible = make([]bool, len(s.records[s.selected].Segments))
	s.ShowAll()
}

// Bump moves the selection by delta records, stopping at either end
func (s *State) Bump(delta int) {
	last := len(s.records) - 1
	switch {
	case last < 0:
		s.Select(0)
	case delta > last-s.selected:
		s.Select(last)
	case delta < -s.selected:
		s.Select(0)
	default:
		s.Select(s.selected + delta)
	}
}

// SelectNearest selects the record closest to the given coordinate
func (s *State) SelectNearest(lat, lon float64) {
	idx := spatial.Nearest(s.points(), lat, lon)
	if idx < 0 {
		return
	}
	s.Select(idx)
}

// ToggleVisibility shows or hides one segment of the current record.
// Invalid indices are ignored.
func (s *State) ToggleVisibility(segment int, visible bool) {
	if segment < 0 || segment >= len(s.visible) {
		return
	}
	s.visible[segment] = visible
}

// ShowAll makes every segment of the current record visible
func (s *State) ShowAll() {
	for i := range s.visible {
		s.visible[i] = true
	}
}

// HideAll hides every segment of the current record
func (s *State) HideAll() {
	for i := range s.visible {
		s.visible[i] = false
	}
}

// SetCategoryVisibility shows or hides every segment of one category in the current record
func (s *State) SetCategoryVisibility(category string, visible bool) {
	rec, ok := s.CurrentRecord()
	if !ok {
		return
	}
	for i, seg := range rec.Segments {
		if seg.Category == category {
			s.visible[i] = visible
		}
	}
}

// SetConfidenceRange shows the segments of the current record whose confidence
// lies within [lo, hi] and hides the rest
func (s *State) SetConfidenceRange(lo, hi float64) {
	rec, ok := s.CurrentRecord()
	if !ok {
		return
	}
	for i, seg := range rec.Segments {
		s.visible[i] = seg.Confidence >= lo && seg.Confidence <= hi
	}
}

// IsVisible reports whether a segment of the current record is shown
func (s *State) IsVisible(segment int) bool {
	return segment >= 0 && segment < len(s.visible) && s.visible[segment]
}

// CurrentRecord returns the selected record; false when no records are loaded
func (s *State) CurrentRecord() (models.ImageRecord, bool) {
	if len(s.records) == 0 {
		return models.ImageRecord{}, false
	}
	return s.records[s.selected], true
}

// VisibleSegmentList returns the visible segments of the current record in original order
func (s *State) VisibleSegmentList() []models.Segment {
	rec, ok := s.CurrentRecord()
	if !ok {
		return []models.Segment{}
	}

	segments := make([]models.Segment, 0, len(rec.Segments))
	for i, seg := range rec.Segments {
		if s.IsVisible(i) {
			segments = append(segments, seg)
		}
	}
	return segments
}

// VisibilityState encodes the visible segment indices as a JSON array
func (s *State) VisibilityState() string {
	indices := make([]int, 0, len(s.visible))
	for i, v := range s.visible {
		if v {
			indices = append(indices, i)
		}
	}
	data, _ := json.Marshal(indices)
	return string(data)
}

// ApplyVisibilityState replaces visibility with the indices listed in a JSON array.
// Empty, null or malformed input shows every segment and returns false.
// Out-of-range indices are dropped.
func (s *State) ApplyVisibilityState(state string) bool {
	if state == "" {
		s.ShowAll()
		return false
	}

	var indices []int
	if err := json.Unmarshal([]byte(state), &indices); err != nil || indices == nil {
		s.ShowAll()
		return false
	}

	s.HideAll()
	for _, i := range indices {
		s.ToggleVisibility(i, true)
	}
	return true
}

// MapMarkers returns one marker per record, highlighting the selected one
func (s *State) MapMarkers() []models.MapMarker {
	markers := make([]models.MapMarker, 0, len(s.records))
	for i, rec := range s.records {
		m := models.MapMarker{
			Index:     i,
			Longitude: rec.Longitude,
			Latitude:  rec.Latitude,
			Size:      MarkerSize,
			Color:     MarkerColor,
			Label:     fmt.Sprintf("Spot %d", i+1),
			Path:      rec.Path,
		}
		if i == s.selected {
			m.Selected = true
			m.Size = SelectedMarkerSize
			m.Color = SelectedMarkerColor
		}
		markers = append(markers, m)
	}
	return markers
}

// MapView centers on the selected record, or on the default center when empty
func (s *State) MapView() models.MapView {
	rec, ok := s.CurrentRecord()
	if !ok {
		return models.MapView{CenterLat: defaultCenter.Lat, CenterLon: defaultCenter.Lon, Zoom: OverviewZoom}
	}
	return models.MapView{CenterLat: rec.Latitude, CenterLon: rec.Longitude, Zoom: SelectedZoom}
}

// Metadata summarises the selected record; nil when no records are loaded
func (s *State) Metadata() *models.Metadata {
	rec, ok := s.CurrentRecord()
	if !ok {
		return nil
	}
	return &models.Metadata{
		Index:        s.selected,
		Longitude:    rec.Longitude,
		Latitude:     rec.Latitude,
		Path:         rec.Path,
		SegmentCount: len(rec.Segments),
	}
}

// SegmentRows returns the segment table for the current record
func (s *State) SegmentRows() []models.SegmentRow {
	rec, ok := s.CurrentRecord()
	if !ok {
		return []models.SegmentRow{}
	}

	rows := make([]models.SegmentRow, 0, len(rec.Segments))
	for i, seg := range rec.Segments {
		rows = append(rows, models.SegmentRow{
			Index:          i,
			Category:       seg.Category,
			Label:          Capitalize(seg.Category),
			Color:          s.palette.Color(seg.Category),
			XMin:           seg.XMin,
			XMax:           seg.XMax,
			YMin:           seg.YMin,
			YMax:           seg.YMax,
			Confidence:     seg.Confidence,
			ConfidenceText: FormatConfidence(seg.Confidence),
			Visible:        s.IsVisible(i),
		})
	}
	return rows
}

// ImageRows returns the image table
func (s *State) ImageRows() []models.ImageRow {
	return ImageRows(s.records, s.selected)
}

// ImageRows builds the image table for records, marking the selected index.
// Pass a negative index to mark nothing.
func ImageRows(records []models.ImageRecord, selected int) []models.ImageRow {
	rows := make([]models.ImageRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, models.ImageRow{
			Index:        i,
			Path:         rec.Path,
			Latitude:     rec.Latitude,
			Longitude:    rec.Longitude,
			SegmentCount: len(rec.Segments),
			Selected:     i == selected,
		})
	}
	return rows
}

// View collects every derived output for a redraw
func (s *State) View() models.View {
	_, ok := s.CurrentRecord()
	meta := s.Metadata()
	return models.View{
		HasRecord:       ok,
		SelectedIndex:   s.selected,
		Total:           len(s.records),
		Markers:         s.MapMarkers(),
		Map:             s.MapView(),
		Metadata:        meta,
		MetadataText:    FormatMetadata(meta),
		Segments:        s.SegmentRows(),
		VisibleSegments: s.VisibleSegmentList(),
		VisibilityState: s.VisibilityState(),
	}
}

func (s *State) points() []spatial.Point {
	points := make([]spatial.Point, len(s.records))
	for i, rec := range s.records {
		points[i] = spatial.Point{Lat: rec.Latitude, Lon: rec.Longitude}
	}
	return points
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

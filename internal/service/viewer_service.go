package service

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jengzang/photomap-backend-go/internal/models"
	"github.com/jengzang/photomap-backend-go/internal/render"
	"github.com/jengzang/photomap-backend-go/internal/session"
	"github.com/jengzang/photomap-backend-go/internal/spatial"
	"github.com/jengzang/photomap-backend-go/internal/viewer"
)

// Catalog is the public listing of every loaded image
type Catalog struct {
	Images []models.ImageRow `json:"images"`
	Total  int               `json:"total"`
	Bounds *spatial.Bounds   `json:"bounds,omitempty"`
	Center *spatial.Point    `json:"center,omitempty"`
}

// ViewerService handles business logic for viewer sessions
type ViewerService struct {
	dataset  *models.Dataset
	palette  *viewer.Palette
	store    *session.Store
	tokens   *session.TokenIssuer
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewViewerService creates a new viewer service whose sessions expire after
// sessionTTL without activity
func NewViewerService(ds *models.Dataset, palette *viewer.Palette, sessionTTL time.Duration, tokens *session.TokenIssuer, renderer *render.Renderer, logger *slog.Logger) *ViewerService {
	if ds == nil {
		ds = &models.Dataset{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &ViewerService{
		dataset:  ds,
		palette:  palette,
		tokens:   tokens,
		renderer: renderer,
		logger:   logger,
	}
	s.store = session.NewStore(sessionTTL, s.NewState, logger)
	return s
}

// Sessions returns the session store
func (s *ViewerService) Sessions() *session.Store {
	return s.store
}

// NewState returns a fresh viewer state over the service's dataset
func (s *ViewerService) NewState() *viewer.State {
	return viewer.NewWithPalette(s.dataset.Records, s.palette)
}

// CreateSession starts a session and returns its token and initial view
func (s *ViewerService) CreateSession() (string, models.View, error) {
	sess := s.store.Create()

	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		s.store.Delete(sess.ID)
		return "", models.View{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	return token, s.View(sess), nil
}

// Authenticate resolves a session token to an active session
func (s *ViewerService) Authenticate(token string) (*session.Session, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.store.Get(id)
}

// EndSession removes a session
func (s *ViewerService) EndSession(sess *session.Session) {
	s.store.Delete(sess.ID)
}

// Catalog lists every image with the bounding box and centroid of their locations
func (s *ViewerService) Catalog() Catalog {
	points := make([]spatial.Point, 0, len(s.dataset.Records))
	for _, rec := range s.dataset.Records {
		points = append(points, spatial.Point{Lat: rec.Latitude, Lon: rec.Longitude})
	}

	c := Catalog{
		Images: viewer.ImageRows(s.dataset.Records, -1),
		Total:  len(s.dataset.Records),
	}
	if b, ok := spatial.BoundingBox(points); ok {
		center := spatial.Centroid(points)
		c.Bounds = &b
		c.Center = &center
	}
	return c
}

// Legend lists the category colors
func (s *ViewerService) Legend() []models.LegendEntry {
	return s.palette.Legend()
}

// View returns the session's current view
func (s *ViewerService) View(sess *session.Session) models.View {
	return s.update(sess, func(*viewer.State) {})
}

// Images returns the image table with the session's selection marked
func (s *ViewerService) Images(sess *session.Session) []models.ImageRow {
	var rows []models.ImageRow
	sess.Do(func(st *viewer.State) { rows = st.ImageRows() })
	return rows
}

// Select selects a record by index, clamped into range
func (s *ViewerService) Select(sess *session.Session, index int) models.View {
	return s.update(sess, func(st *viewer.State) { st.Select(index) })
}

// Bump moves the selection by delta
func (s *ViewerService) Bump(sess *session.Session, delta int) models.View {
	return s.update(sess, func(st *viewer.State) { st.Bump(delta) })
}

// Locate selects the record nearest to a clicked map coordinate
func (s *ViewerService) Locate(sess *session.Session, lat, lon float64) models.View {
	return s.update(sess, func(st *viewer.State) { st.SelectNearest(lat, lon) })
}

// ToggleVisibility shows or hides one segment
func (s *ViewerService) ToggleVisibility(sess *session.Session, segment int, visible bool) models.View {
	return s.update(sess, func(st *viewer.State) { st.ToggleVisibility(segment, visible) })
}

// ApplyVisibilityState replaces visibility from its JSON form
func (s *ViewerService) ApplyVisibilityState(sess *session.Session, state string) models.View {
	return s.update(sess, func(st *viewer.State) {
		if !st.ApplyVisibilityState(state) && state != "" {
			s.logger.Warn("Malformed visibility state, showing all segments", "session", sess.ID, "state", state)
		}
	})
}

// ShowAll makes every segment of the selected record visible
func (s *ViewerService) ShowAll(sess *session.Session) models.View {
	return s.update(sess, func(st *viewer.State) { st.ShowAll() })
}

// HideAll hides every segment of the selected record
func (s *ViewerService) HideAll(sess *session.Session) models.View {
	return s.update(sess, func(st *viewer.State) { st.HideAll() })
}

// SetCategoryVisibility shows or hides all segments of a category
func (s *ViewerService) SetCategoryVisibility(sess *session.Session, category string, visible bool) models.View {
	return s.update(sess, func(st *viewer.State) { st.SetCategoryVisibility(category, visible) })
}

// SetConfidenceRange shows only the current record's segments scored within [lo, hi]
func (s *ViewerService) SetConfidenceRange(sess *session.Session, lo, hi float64) models.View {
	return s.update(sess, func(st *viewer.State) { st.SetConfidenceRange(lo, hi) })
}

// RenderOverlay writes the selected photo with its visible segments drawn on it
func (s *ViewerService) RenderOverlay(sess *session.Session, w io.Writer, format render.Format) error {
	var (
		rec      models.ImageRecord
		ok       bool
		segments []models.Segment
	)
	sess.Do(func(st *viewer.State) {
		rec, ok = st.CurrentRecord()
		segments = st.VisibleSegmentList()
	})
	if !ok {
		return fmt.Errorf("%w: no images loaded", render.ErrImageNotFound)
	}

	// Encode fully before writing so a failure can still become an error response
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, rec, segments, format); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (s *ViewerService) update(sess *session.Session, fn func(*viewer.State)) models.View {
	var view models.View
	sess.Do(func(st *viewer.State) {
		fn(st)
		view = st.View()
	})
	return view
}

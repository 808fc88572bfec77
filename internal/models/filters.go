package models

// SelectRequest is the body of POST /viewer/select
type SelectRequest struct {
	Index *int `json:"index" binding:"required"`
}

// BumpRequest is the body of POST /viewer/bump
type BumpRequest struct {
	Delta int `json:"delta"`
}

// LocateRequest is the body of POST /viewer/locate
type LocateRequest struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// ToggleRequest is the body of POST /viewer/visibility
type ToggleRequest struct {
	Segment int  `json:"segment"`
	Visible bool `json:"visible"`
}

// VisibilityStateRequest is the body of PUT /viewer/visibility
type VisibilityStateRequest struct {
	State string `json:"state"`
}

// CategoryVisibilityRequest is the body of POST /viewer/categories/:name
type CategoryVisibilityRequest struct {
	Visible bool `json:"visible"`
}

// ConfidenceRangeRequest is the body of POST /viewer/confidence
type ConfidenceRangeRequest struct {
	Min *float64 `json:"min" binding:"required,min=0,max=1"`
	Max *float64 `json:"max" binding:"required,min=0,max=1"`
}

// OverlayFilter represents query parameters for overlay rendering
type OverlayFilter struct {
	Format string `form:"format"` // png, jpeg, webp
}

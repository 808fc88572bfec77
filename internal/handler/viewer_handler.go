package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/photomap-backend-go/internal/middleware"
	"github.com/jengzang/photomap-backend-go/internal/models"
	"github.com/jengzang/photomap-backend-go/internal/render"
	"github.com/jengzang/photomap-backend-go/internal/service"
	"github.com/jengzang/photomap-backend-go/pkg/response"
)

// ViewerHandler handles HTTP requests for viewer sessions
type ViewerHandler struct {
	service *service.ViewerService
}

// NewViewerHandler creates a new viewer handler
func NewViewerHandler(service *service.ViewerService) *ViewerHandler {
	return &ViewerHandler{service: service}
}

// CreateSession handles POST /api/v1/sessions
func (h *ViewerHandler) CreateSession(c *gin.Context) {
	token, view, err := h.service.CreateSession()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, 0, "/", "", false, true)
	response.Success(c, gin.H{
		"token": token,
		"view":  view,
	})
}

// EndSession handles DELETE /api/v1/sessions
func (h *ViewerHandler) EndSession(c *gin.Context) {
	h.service.EndSession(middleware.CurrentSession(c))
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	response.Success(c, nil)
}

// GetCatalog handles GET /api/v1/images
func (h *ViewerHandler) GetCatalog(c *gin.Context) {
	response.Success(c, h.service.Catalog())
}

// GetLegend handles GET /api/v1/categories
func (h *ViewerHandler) GetLegend(c *gin.Context) {
	response.Success(c, h.service.Legend())
}

// GetView handles GET /api/v1/viewer
func (h *ViewerHandler) GetView(c *gin.Context) {
	response.Success(c, h.service.View(middleware.CurrentSession(c)))
}

// GetImages handles GET /api/v1/viewer/images
func (h *ViewerHandler) GetImages(c *gin.Context) {
	rows := h.service.Images(middleware.CurrentSession(c))
	response.Success(c, gin.H{
		"data":  rows,
		"total": len(rows),
	})
}

// Select handles POST /api/v1/viewer/select
func (h *ViewerHandler) Select(c *gin.Context) {
	var req models.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	response.Success(c, h.service.Select(middleware.CurrentSession(c), *req.Index))
}

// Bump handles POST /api/v1/viewer/bump
func (h *ViewerHandler) Bump(c *gin.Context) {
	var req models.BumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	response.Success(c, h.service.Bump(middleware.CurrentSession(c), req.Delta))
}

// Next handles POST /api/v1/viewer/next
func (h *ViewerHandler) Next(c *gin.Context) {
	response.Success(c, h.service.Bump(middleware.CurrentSession(c), 1))
}

// Previous handles POST /api/v1/viewer/previous
func (h *ViewerHandler) Previous(c *gin.Context) {
	response.Success(c, h.service.Bump(middleware.CurrentSession(c), -1))
}

// Locate handles POST /api/v1/viewer/locate
func (h *ViewerHandler) Locate(c *gin.Context) {
	var req models.LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	response.Success(c, h.service.Locate(middleware.CurrentSession(c), req.Latitude, req.Longitude))
}

// ToggleVisibility handles POST /api/v1/viewer/visibility
func (h *ViewerHandler) ToggleVisibility(c *gin.Context) {
	var req models.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	response.Success(c, h.service.ToggleVisibility(middleware.CurrentSession(c), req.Segment, req.Visible))
}

// SetVisibilityState handles PUT /api/v1/viewer/visibility
func (h *ViewerHandler) SetVisibilityState(c *gin.Context) {
	var req models.VisibilityStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	response.Success(c, h.service.ApplyVisibilityState(middleware.CurrentSession(c), req.State))
}

// ShowAll handles POST /api/v1/viewer/visibility/all
func (h *ViewerHandler) ShowAll(c *gin.Context) {
	response.Success(c, h.service.ShowAll(middleware.CurrentSession(c)))
}

// HideAll handles POST /api/v1/viewer/visibility/none
func (h *ViewerHandler) HideAll(c *gin.Context) {
	response.Success(c, h.service.HideAll(middleware.CurrentSession(c)))
}

// SetCategoryVisibility handles POST /api/v1/viewer/categories/:name
func (h *ViewerHandler) SetCategoryVisibility(c *gin.Context) {
	var req models.CategoryVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	response.Success(c, h.service.SetCategoryVisibility(middleware.CurrentSession(c), c.Param("name"), req.Visible))
}

// SetConfidenceRange handles POST /api/v1/viewer/confidence
func (h *ViewerHandler) SetConfidenceRange(c *gin.Context) {
	var req models.ConfidenceRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}
	if *req.Min > *req.Max {
		response.BadRequest(c, "min must not exceed max", nil)
		return
	}

	response.Success(c, h.service.SetConfidenceRange(middleware.CurrentSession(c), *req.Min, *req.Max))
}

// GetOverlay handles GET /api/v1/viewer/overlay
func (h *ViewerHandler) GetOverlay(c *gin.Context) {
	var filter models.OverlayFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	format, err := render.ParseFormat(filter.Format)
	if err != nil {
		response.BadRequest(c, "Unsupported format", err)
		return
	}

	c.Header("Content-Type", format.ContentType())
	c.Header("Cache-Control", "no-store")
	err = h.service.RenderOverlay(middleware.CurrentSession(c), c.Writer, format)
	if err != nil {
		c.Writer.Header().Del("Content-Type")
		if errors.Is(err, render.ErrImageNotFound) {
			response.NotFound(c, "Image not found", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to render overlay", err)
	}
}

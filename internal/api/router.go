package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/photomap-backend-go/internal/handler"
	"github.com/jengzang/photomap-backend-go/internal/middleware"
	"github.com/jengzang/photomap-backend-go/internal/service"
)

// Deps holds what the router wires into handlers
type Deps struct {
	Viewer    *service.ViewerService
	Limiter   *middleware.RateLimiter
	ImageRoot string
	Logger    *slog.Logger
}

// SetupRouter 设置路由
func SetupRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(deps.Logger))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"message":  "Photo map backend is running",
			"sessions": deps.Viewer.Sessions().Len(),
		})
	})

	// Photos referenced by the dataset
	if deps.ImageRoot != "" {
		r.Static("/images", deps.ImageRoot)
	}

	viewerHandler := handler.NewViewerHandler(deps.Viewer)
	auth := middleware.SessionAuth(deps.Viewer)

	api := r.Group("/api/v1")
	{
		api.POST("/sessions", viewerHandler.CreateSession)
		api.DELETE("/sessions", auth, viewerHandler.EndSession)
		api.GET("/images", viewerHandler.GetCatalog)
		api.GET("/categories", viewerHandler.GetLegend)

		v := api.Group("/viewer", auth)
		{
			v.GET("", viewerHandler.GetView)
			v.GET("/images", viewerHandler.GetImages)
			v.POST("/select", viewerHandler.Select)
			v.POST("/bump", viewerHandler.Bump)
			v.POST("/next", viewerHandler.Next)
			v.POST("/previous", viewerHandler.Previous)
			v.POST("/locate", viewerHandler.Locate)
			v.POST("/visibility", viewerHandler.ToggleVisibility)
			v.PUT("/visibility", viewerHandler.SetVisibilityState)
			v.POST("/visibility/all", viewerHandler.ShowAll)
			v.POST("/visibility/none", viewerHandler.HideAll)
			v.POST("/categories/:name", viewerHandler.SetCategoryVisibility)
			v.POST("/confidence", viewerHandler.SetConfidenceRange)
			v.GET("/overlay", middleware.RateLimit(deps.Limiter), viewerHandler.GetOverlay)
		}
	}

	return r
}

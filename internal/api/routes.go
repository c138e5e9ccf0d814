// routes.go - Route registration helpers
package api

import (
	"github.com/file-analyzer/backend/internal/storage"
	"github.com/file-analyzer/backend/internal/submission"
	"github.com/labstack/echo/v4"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store    storage.Store
	Surfaces *submission.Manager
	Pipeline submission.Config
	Version  string

	WebSocketMaxMessageKB int
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Surface SurfaceHandler
	Analyze AnalyzeHandler
	Stream  StreamHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.Surfaces),
		Surface: NewSurfaceHandler(deps.Store, deps.Surfaces),
		Analyze: NewAnalyzeHandler(deps.Pipeline),
		Stream:  NewStreamHandler(deps.Surfaces, deps.WebSocketMaxMessageKB),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Same-origin multipart analysis
	apiGroup.POST("/analyze", handlers.Analyze.HandleAnalyze)

	// Page surfaces
	surfaceGroup := apiGroup.Group("/surfaces")
	surfaceGroup.POST("", handlers.Surface.HandleCreateSurface)
	surfaceGroup.GET("/:id", handlers.Surface.HandleGetSurface)
	surfaceGroup.DELETE("/:id", handlers.Surface.HandleDeleteSurface)
	surfaceGroup.PUT("/:id/file", handlers.Surface.HandleSelectFile)
	surfaceGroup.DELETE("/:id/file", handlers.Surface.HandleClearFile)
	surfaceGroup.POST("/:id/submit", handlers.Surface.HandleSubmit)
	surfaceGroup.GET("/:id/ws", handlers.Stream.HandleSurfaceStream)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}

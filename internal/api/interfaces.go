// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import "github.com/labstack/echo/v4"

// SurfaceHandler drives one page's file selection and submission
type SurfaceHandler interface {
	HandleCreateSurface(c echo.Context) error
	HandleGetSurface(c echo.Context) error
	HandleDeleteSurface(c echo.Context) error
	HandleSelectFile(c echo.Context) error
	HandleClearFile(c echo.Context) error
	HandleSubmit(c echo.Context) error
}

// AnalyzeHandler runs the pipeline for a single multipart upload
type AnalyzeHandler interface {
	HandleAnalyze(c echo.Context) error
}

// StreamHandler pushes surface views to the page
type StreamHandler interface {
	HandleSurfaceStream(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

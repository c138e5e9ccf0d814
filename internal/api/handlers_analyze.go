// handlers_analyze.go - Same-origin analysis of a single multipart upload
package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/file-analyzer/backend/internal/analysis"
	"github.com/file-analyzer/backend/internal/encoder"
	"github.com/file-analyzer/backend/internal/models"
	"github.com/file-analyzer/backend/internal/submission"
	"github.com/labstack/echo/v4"
)

// AnalyzeHandlerImpl implements the AnalyzeHandler interface
type AnalyzeHandlerImpl struct {
	pipeline submission.Config
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(pipeline submission.Config) AnalyzeHandler {
	return &AnalyzeHandlerImpl{pipeline: pipeline}
}

// HandleAnalyze reads the "file" form field and returns the analysis result.
// Service rejections are answered with 200 and an error field, matching the
// analysis endpoint's own contract.
func (h *AnalyzeHandlerImpl) HandleAnalyze(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	handle := &models.FileHandle{
		Name:     file.Filename,
		MimeType: file.Header.Get(echo.HeaderContentType),
		Size:     file.Size,
		Source:   formFileSource{file},
	}

	result, err := submission.Run(c.Request().Context(), h.pipeline, handle)
	if err != nil {
		fmt.Printf("[Analyze] %s: %v\n", file.Filename, err)
		return analyzeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func analyzeError(c echo.Context, err error) error {
	var (
		readErr      *encoder.ReadError
		serviceErr   *analysis.ServiceError
		transportErr *analysis.TransportError
		protocolErr  *analysis.ProtocolError
	)

	switch {
	case errors.As(err, &serviceErr):
		return c.JSON(http.StatusOK, models.AnalysisResult{Error: submission.UserMessage(serviceErr)})
	case errors.As(err, &readErr):
		return NewBadRequestError(submission.UserMessage(err), err)
	case errors.As(err, &transportErr), errors.As(err, &protocolErr):
		return NewBadGatewayError(submission.UserMessage(err), err)
	default:
		return NewInternalError("analysis failed", err)
	}
}

// formFileSource adapts a multipart file header to models.ByteSource
type formFileSource struct {
	header *multipart.FileHeader
}

func (f formFileSource) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

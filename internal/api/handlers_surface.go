// handlers_surface.go - File selection and submission handlers
package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/file-analyzer/backend/internal/encoder"
	"github.com/file-analyzer/backend/internal/models"
	"github.com/file-analyzer/backend/internal/storage"
	"github.com/file-analyzer/backend/internal/submission"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEMsgpack is the content type for msgpack encoded views
const MIMEMsgpack = "application/msgpack"

// SurfaceHandlerImpl implements the SurfaceHandler interface
type SurfaceHandlerImpl struct {
	store    storage.Store
	surfaces *submission.Manager
}

// NewSurfaceHandler creates a new surface handler instance
func NewSurfaceHandler(store storage.Store, surfaces *submission.Manager) SurfaceHandler {
	return &SurfaceHandlerImpl{
		store:    store,
		surfaces: surfaces,
	}
}

// HandleCreateSurface registers a new page surface
func (h *SurfaceHandlerImpl) HandleCreateSurface(c echo.Context) error {
	s := h.surfaces.Create()
	fmt.Printf("[Surface %s] Created\n", s.ID[:8])

	return c.JSON(http.StatusCreated, surfaceResponse{
		ID:   s.ID,
		View: s.Controller.View(),
	})
}

// HandleGetSurface returns the current view of a surface
func (h *SurfaceHandlerImpl) HandleGetSurface(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}
	return respondView(c, http.StatusOK, s.Controller.View())
}

// HandleDeleteSurface drops a surface and releases its selected file
func (h *SurfaceHandlerImpl) HandleDeleteSurface(c echo.Context) error {
	id := c.Param("id")
	s, ok := h.surfaces.Remove(id)
	if !ok {
		return NewNotFoundError("surface", id)
	}

	h.release(s.Select(nil, ""))

	return c.NoContent(http.StatusNoContent)
}

// HandleSelectFile stores the chosen file and makes it the surface's selection.
// Accepts multipart/form-data with a "file" field or a JSON body whose data
// is base64 or a data URL.
func (h *SurfaceHandlerImpl) HandleSelectFile(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}

	var info *models.FileInfo
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		info, err = h.saveMultipart(c)
	} else {
		info, err = h.saveJSON(c)
	}
	if err != nil {
		return err
	}

	handle, err := h.store.Handle(info.ID)
	if err != nil {
		return NewInternalError("failed to open stored file", err)
	}

	h.release(s.Select(handle, info.ID))
	fmt.Printf("[Surface %s] Selected %s (%s, %d bytes)\n", s.ID[:8], info.Name, info.MimeType, info.Size)

	return respondView(c, http.StatusOK, s.Controller.View())
}

// HandleClearFile clears the surface's selection
func (h *SurfaceHandlerImpl) HandleClearFile(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}

	h.release(s.Select(nil, ""))

	return respondView(c, http.StatusOK, s.Controller.View())
}

// HandleSubmit starts analysis of the selected file. A submit while one is
// already running is ignored and answered with 200 instead of 202.
func (h *SurfaceHandlerImpl) HandleSubmit(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}

	started, err := s.Controller.Submit(c.Request().Context())
	if errors.Is(err, submission.ErrNoFileSelected) {
		return NewNoFileSelectedError(err.Error())
	}
	if err != nil {
		return NewInternalError("failed to start analysis", err)
	}

	status := http.StatusOK
	if started {
		status = http.StatusAccepted
	}
	return respondView(c, status, s.Controller.View())
}

func (h *SurfaceHandlerImpl) lookup(c echo.Context) (*submission.Surface, error) {
	id := c.Param("id")
	if id == "" {
		return nil, NewValidationError("id")
	}
	s, ok := h.surfaces.Get(id)
	if !ok {
		return nil, NewNotFoundError("surface", id)
	}
	return s, nil
}

func (h *SurfaceHandlerImpl) saveMultipart(c echo.Context) (*models.FileInfo, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(file.Filename, file.Header.Get(echo.HeaderContentType), src)
	if err != nil {
		return nil, NewInternalError("failed to save file", err)
	}
	return info, nil
}

func (h *SurfaceHandlerImpl) saveJSON(c echo.Context) (*models.FileInfo, error) {
	var req selectFileRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	data, urlMime, err := encoder.DecodeDataURL(req.Data)
	if err != nil {
		return nil, NewBadRequestError("invalid base64 data", err)
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = urlMime
	}

	info, err := h.store.Save(req.Name, mimeType, bytes.NewReader(data))
	if err != nil {
		return nil, NewInternalError("failed to save file", err)
	}
	return info, nil
}

// release deletes a replaced selection from storage
func (h *SurfaceHandlerImpl) release(fileID string) {
	if fileID == "" {
		return
	}
	if err := h.store.Delete(fileID); err != nil {
		fmt.Printf("[Storage] Warning: failed to release %s: %v\n", fileID, err)
	}
}

// respondView writes a view as JSON, or msgpack when the client asks for it
func respondView(c echo.Context, status int, view models.View) error {
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEMsgpack) {
		data, err := msgpack.Marshal(view)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(status, MIMEMsgpack, data)
	}
	return c.JSON(status, view)
}

// Request/Response types

type surfaceResponse struct {
	ID   string      `json:"id"`
	View models.View `json:"view"`
}

type selectFileRequest struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 or data URL; empty for an empty file
}

func (r *selectFileRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	return nil
}

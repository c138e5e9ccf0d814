// Package encoder turns a selected file into a base64 payload.
package encoder

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/file-analyzer/backend/internal/models"
)

// ErrNilFile is returned when Encode is called without a file.
var ErrNilFile = errors.New("encoder: nil file handle")

// ReadError reports that the selected file could not be read.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %q: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Encoder reads a file fully and encodes it.
type Encoder struct{}

// New creates an Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Encode reads the file's bytes and returns them base64 encoded along with the
// file's declared MIME type.
func (e *Encoder) Encode(ctx context.Context, file *models.FileHandle) (*models.EncodedPayload, error) {
	if file == nil {
		return nil, ErrNilFile
	}
	if file.Source == nil {
		return nil, &ReadError{Name: file.Name, Err: errors.New("no byte source")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ReadError{Name: file.Name, Err: err}
	}

	rc, err := file.Source.Open()
	if err != nil {
		return nil, &ReadError{Name: file.Name, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: rc})
	if err != nil {
		return nil, &ReadError{Name: file.Name, Err: err}
	}

	return &models.EncodedPayload{
		Data:        StripDataURIPrefix(base64.StdEncoding.EncodeToString(data)),
		ContentType: file.MimeType,
	}, nil
}

// StripDataURIPrefix removes a leading "data:<mime>;base64," header if present.
func StripDataURIPrefix(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

// DecodeDataURL accepts raw base64 or a data URL and returns the decoded
// bytes plus the MIME type declared in the URL header (empty for raw base64).
func DecodeDataURL(s string) ([]byte, string, error) {
	var mimeType string
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, "", errors.New("malformed data URL")
		}
		header := strings.TrimPrefix(s[:i], "data:")
		if !strings.HasSuffix(header, ";base64") {
			return nil, "", errors.New("data URL is not base64 encoded")
		}
		mimeType = strings.TrimSuffix(header, ";base64")
	}

	data, err := base64.StdEncoding.DecodeString(StripDataURIPrefix(s))
	if err != nil {
		return nil, "", fmt.Errorf("decoding base64: %w", err)
	}
	return data, mimeType, nil
}

// ctxReader stops reading once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

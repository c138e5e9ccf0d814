package testutil

import (
	"context"
	"sync"

	"github.com/file-analyzer/backend/internal/models"
)

// StubAnalyzer is a scriptable stand-in for the analysis client.
type StubAnalyzer struct {
	mu       sync.Mutex
	requests []*models.AnalysisRequest

	// Respond produces the outcome of call n (1-based). When nil, Result and
	// Err are returned.
	Respond func(ctx context.Context, n int, req *models.AnalysisRequest) (*models.AnalysisResult, error)
	Result  *models.AnalysisResult
	Err     error
}

// Submit records the request and returns the scripted outcome.
func (s *StubAnalyzer) Submit(ctx context.Context, req *models.AnalysisRequest, endpoint string) (*models.AnalysisResult, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	n := len(s.requests)
	respond := s.Respond
	s.mu.Unlock()

	if respond != nil {
		return respond(ctx, n, req)
	}
	return s.Result, s.Err
}

// Calls returns how many times Submit was invoked.
func (s *StubAnalyzer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns the requests received so far.
func (s *StubAnalyzer) Requests() []*models.AnalysisRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.AnalysisRequest(nil), s.requests...)
}

// Encoder is the subset of the encoder API the controller needs.
type Encoder interface {
	Encode(ctx context.Context, file *models.FileHandle) (*models.EncodedPayload, error)
}

// CountingEncoder wraps an encoder and counts calls. If Gate is set, every
// call waits for it to be closed (or to receive a value) before encoding.
type CountingEncoder struct {
	Next Encoder
	Gate chan struct{}

	mu    sync.Mutex
	calls int
}

// Encode implements the controller's Encoder interface.
func (e *CountingEncoder) Encode(ctx context.Context, file *models.FileHandle) (*models.EncodedPayload, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.Gate != nil {
		select {
		case <-e.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return e.Next.Encode(ctx, file)
}

// Calls returns how many times Encode was invoked.
func (e *CountingEncoder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// TextFile returns a handle for an in-memory file.
func TextFile(name, mimeType, content string) *models.FileHandle {
	return &models.FileHandle{
		ID:       name,
		Name:     name,
		MimeType: mimeType,
		Size:     int64(len(content)),
		Source:   models.BytesSource(content),
	}
}

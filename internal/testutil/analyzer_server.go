package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/file-analyzer/backend/internal/models"
)

// AnalyzerServer is an httptest server speaking the analysis endpoint's
// JSON contract.
type AnalyzerServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	received []models.AnalysisRequest
}

// NewAnalyzerServer starts a server answering every POST with status and body.
// It is closed when the test ends.
func NewAnalyzerServer(t *testing.T, status int, body string) *AnalyzerServer {
	t.Helper()
	s := &AnalyzerServer{status: status, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// SetResponse changes the canned response.
func (s *AnalyzerServer) SetResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

// Received returns the decoded requests seen so far.
func (s *AnalyzerServer) Received() []models.AnalysisRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AnalysisRequest(nil), s.received...)
}

func (s *AnalyzerServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.AnalysisRequest
	data, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(data, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Invalid Base64 encoding."}`)
		return
	}

	s.mu.Lock()
	s.received = append(s.received, req)
	status, body := s.status, s.body
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

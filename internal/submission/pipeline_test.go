package submission

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/file-analyzer/backend/internal/analysis"
	"github.com/file-analyzer/backend/internal/encoder"
	"github.com/file-analyzer/backend/internal/models"
	"github.com/file-analyzer/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AgainstAnalyzerServer(t *testing.T) {
	srv := testutil.NewAnalyzerServer(t, http.StatusOK, `{"fileType":"text/csv","summary":"two columns"}`)
	cfg := Config{
		Encoder:  encoder.New(),
		Analyzer: analysis.NewClient(5 * time.Second),
		Endpoint: srv.URL,
		Timeout:  5 * time.Second,
	}

	result, err := Run(context.Background(), cfg, testutil.TextFile("data.csv", "text/csv", "a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, &models.AnalysisResult{FileType: "text/csv", Summary: "two columns"}, result)

	received := srv.Received()
	require.Len(t, received, 1)
	assert.Equal(t, "YSxiCjEsMgo=", received[0].Body)
	assert.Equal(t, "text/csv", received[0].Headers.ContentType)
}

func TestRun_ServiceRejection(t *testing.T) {
	srv := testutil.NewAnalyzerServer(t, http.StatusOK, `{"error":"unsupported format"}`)
	cfg := Config{Encoder: encoder.New(), Analyzer: analysis.NewClient(time.Second), Endpoint: srv.URL}

	_, err := Run(context.Background(), cfg, testutil.TextFile("a.exe", "application/x-msdownload", "MZ"))

	var svcErr *analysis.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "unsupported format", svcErr.Message)
}

func TestRun_NoFile(t *testing.T) {
	stub := &testutil.StubAnalyzer{}
	_, err := Run(context.Background(), Config{Encoder: encoder.New(), Analyzer: stub}, nil)

	assert.ErrorIs(t, err, ErrNoFileSelected)
	assert.Equal(t, 0, stub.Calls())
}

func TestRun_ResultWithErrorField(t *testing.T) {
	stub := &testutil.StubAnalyzer{Result: &models.AnalysisResult{Error: "file too large"}}
	_, err := Run(context.Background(), Config{Encoder: encoder.New(), Analyzer: stub}, testutil.TextFile("a", "", "a"))

	var svcErr *analysis.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "file too large", svcErr.Message)
}

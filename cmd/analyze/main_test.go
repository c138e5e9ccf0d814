package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/file-analyzer/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_PrintsResult(t *testing.T) {
	srv := testutil.NewAnalyzerServer(t, http.StatusOK, `{"fileType":"text/csv","summary":"2 rows"}`)
	path := writeTemp(t, "data.csv", "a,b\n1,2\n")

	var out bytes.Buffer
	err := run(context.Background(), []string{"-endpoint", srv.URL, "-type", "text/csv", path}, &out)

	require.NoError(t, err)
	assert.Equal(t, "File Type: text/csv\nSummary: 2 rows\n", out.String())

	received := srv.Received()
	require.Len(t, received, 1)
	assert.Equal(t, "YSxiCjEsMgo=", received[0].Body)
	assert.Equal(t, "text/csv", received[0].Headers.ContentType)
}

func TestRun_ExplicitType(t *testing.T) {
	srv := testutil.NewAnalyzerServer(t, http.StatusOK, `{"fileType":"x","summary":"y"}`)
	path := writeTemp(t, "blob", "hello")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-endpoint", srv.URL, "-type", "application/x-custom", path}, &out))

	assert.Equal(t, "application/x-custom", srv.Received()[0].Headers.ContentType)
}

func TestRun_TypeFromExtension(t *testing.T) {
	srv := testutil.NewAnalyzerServer(t, http.StatusOK, `{"fileType":"x","summary":"y"}`)
	path := writeTemp(t, "report.json", `{"a":1}`)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-endpoint", srv.URL, path}, &out))

	assert.Equal(t, "application/json", srv.Received()[0].Headers.ContentType)
}

func TestRun_SniffsUnknownExtension(t *testing.T) {
	srv := testutil.NewAnalyzerServer(t, http.StatusOK, `{"fileType":"x","summary":"y"}`)
	path := writeTemp(t, "notes", "plain words")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-endpoint", srv.URL, path}, &out))

	assert.Equal(t, "text/plain; charset=utf-8", srv.Received()[0].Headers.ContentType)
}

func TestRun_Errors(t *testing.T) {
	srv := testutil.NewAnalyzerServer(t, http.StatusOK, `{"error":"unsupported format"}`)
	path := writeTemp(t, "a.txt", "x")

	var out bytes.Buffer
	err := run(context.Background(), []string{"-endpoint", srv.URL, path}, &out)
	require.Error(t, err)
	assert.Equal(t, "unsupported format", err.Error())
	assert.Empty(t, out.String())

	err = run(context.Background(), []string{"-endpoint", srv.URL}, &out)
	assert.Error(t, err)

	err = run(context.Background(), []string{"-endpoint", srv.URL, filepath.Join(t.TempDir(), "missing")}, &out)
	assert.Error(t, err)
	assert.Len(t, srv.Received(), 1)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefaultXML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "FileAnalyzer.config")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, 8089, cfg.Server.Port)
	assert.Equal(t, DefaultAnalysisEndpoint, cfg.Analysis.Endpoint)
	assert.Equal(t, filepath.Join(dir, "data", "uploads"), cfg.GetUploadDir())

	data, _ := os.ReadFile(path)
	assert.Contains(t, string(data), "<FileAnalyzer>")
}

func TestLoadConfig_XMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.config")

	cfg := DefaultConfig()
	cfg.Analysis.Endpoint = "http://localhost:9000/analyze"
	cfg.Analysis.TimeoutSeconds = 12
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/analyze", loaded.Analysis.Endpoint)
	assert.Equal(t, 12*time.Second, loaded.AnalysisTimeout())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analyzer.yaml")
	content := `
server:
  port: 9090
  bindAddress: 127.0.0.1
analysis:
  endpoint: https://example.test/prod/analyze
  timeoutSeconds: 15
storage:
  dataDirectory: /var/lib/analyzer
  uploadsDirectory: uploads
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddr())
	assert.Equal(t, "https://example.test/prod/analyze", cfg.Analysis.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.AnalysisTimeout())
	assert.Equal(t, "/var/lib/analyzer", cfg.GetDataDir())
	assert.Equal(t, filepath.Join(dir, "uploads"), cfg.GetUploadDir())
	// untouched sections keep their defaults
	assert.Equal(t, 5, cfg.Processing.CleanupIntervalMinutes)
}

func TestLoadConfig_CreatesDefaultYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.yml")

	_, err := LoadConfig(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "endpoint: "+DefaultAnalysisEndpoint)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("ANALYSIS_ENDPOINT", "http://override.test/analyze")
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "3")
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "app.config"))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "http://override.test/analyze", cfg.Analysis.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.AnalysisTimeout())
	assert.Equal(t, filepath.Join(dataDir, "uploads"), cfg.GetUploadDir())
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.config")
	require.NoError(t, os.WriteFile(bad, []byte("<FileAnalyzer><Server>"), 0644))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	noEndpoint := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(noEndpoint, []byte("analysis:\n  endpoint: \"\"\n"), 0644))
	_, err = LoadConfig(noEndpoint)
	assert.ErrorContains(t, err, "analysis endpoint")
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.resolvePaths(dir)

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.GetUploadDir())
}

func TestLoadConfig_RejectsNonPositiveIntervals(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero cleanup interval", "processing:\n  cleanupIntervalMinutes: 0\n", "cleanup interval"},
		{"negative cleanup interval", "processing:\n  cleanupIntervalMinutes: -1\n", "cleanup interval"},
		{"zero surface timeout", "processing:\n  surfaceTimeoutMinutes: 0\n", "surface timeout"},
		{"unknown log level", "advanced:\n  logLevel: verbose\n", "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "analyzer.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/file-analyzer/backend/internal/encoder"
	"github.com/file-analyzer/backend/internal/storage"
	"github.com/file-analyzer/backend/internal/submission"
	"github.com/file-analyzer/backend/internal/testutil"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCleanupFixture(t *testing.T) (*storage.LocalStore, *submission.Manager) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	surfaces := submission.NewManager(func() *submission.Controller {
		return submission.NewController(submission.Config{
			Encoder:  encoder.New(),
			Analyzer: &testutil.StubAnalyzer{},
		})
	})
	return store, surfaces
}

func selectStored(t *testing.T, store storage.Store, s *submission.Surface, name string) string {
	t.Helper()
	info, err := store.Save(name, "text/plain", strings.NewReader(name))
	require.NoError(t, err)
	handle, err := store.Handle(info.ID)
	require.NoError(t, err)
	s.Select(handle, info.ID)
	return info.ID
}

func TestSweepOrphans(t *testing.T) {
	store, surfaces := newCleanupFixture(t)

	live := selectStored(t, store, surfaces.Create(), "live.txt")
	orphan, err := store.Save("orphan.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)

	// a fresh orphan may still be on its way to a surface
	assert.Equal(t, 0, sweepOrphans(store, surfaces, time.Hour))

	assert.Equal(t, 1, sweepOrphans(store, surfaces, 0))
	_, err = store.Get(orphan.ID)
	assert.Error(t, err)
	_, err = store.Get(live)
	assert.NoError(t, err)
}

func TestCleanup_ReleasesIdleSurfaceFiles(t *testing.T) {
	store, surfaces := newCleanupFixture(t)

	idle := surfaces.Create()
	idleFile := selectStored(t, store, idle, "idle.txt")

	watched := surfaces.Create()
	watchedFile := selectStored(t, store, watched, "watched.txt")
	_, unsubscribe := watched.Controller.Subscribe()
	defer unsubscribe()

	time.Sleep(10 * time.Millisecond)
	cleanup(store, surfaces, time.Millisecond)

	_, ok := surfaces.Get(idle.ID)
	assert.False(t, ok)
	_, err := store.Get(idleFile)
	assert.Error(t, err)

	_, ok = surfaces.Get(watched.ID)
	assert.True(t, ok)
	_, err = store.Get(watchedFile)
	assert.NoError(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, log.DEBUG, logLevel("debug"))
	assert.Equal(t, log.INFO, logLevel("info"))
	assert.Equal(t, log.WARN, logLevel("warn"))
	assert.Equal(t, log.ERROR, logLevel("error"))
}

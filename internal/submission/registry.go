package submission

import (
	"sync"
	"time"

	"github.com/file-analyzer/backend/internal/models"
	"github.com/google/uuid"
)

// Surface is one page's submission controller plus the stored file backing
// its current selection.
type Surface struct {
	ID         string
	Controller *Controller
	CreatedAt  time.Time

	mu     sync.Mutex
	fileID string
}

// Select hands file to the controller and records fileID as the stored file
// backing it, returning the previous id for release. Both change under one
// lock so the controller never holds a handle whose file was released.
// A nil file clears the selection.
func (s *Surface) Select(file *models.FileHandle, fileID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Controller.Select(file)
	prev := s.fileID
	s.fileID = fileID
	return prev
}

// FileID returns the storage id of the selected file, if any.
func (s *Surface) FileID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileID
}

// Manager tracks live surfaces.
type Manager struct {
	surfaces      map[string]*Surface
	mu            sync.RWMutex
	newController func() *Controller
}

// NewManager creates a surface manager. newController is called once per
// surface.
func NewManager(newController func() *Controller) *Manager {
	return &Manager{
		surfaces:      make(map[string]*Surface),
		newController: newController,
	}
}

// Create registers a new surface with an idle controller.
func (m *Manager) Create() *Surface {
	s := &Surface{
		ID:         uuid.New().String(),
		Controller: m.newController(),
		CreatedAt:  time.Now(),
	}

	m.mu.Lock()
	m.surfaces[s.ID] = s
	m.mu.Unlock()

	return s
}

// Get retrieves a surface by ID.
func (m *Manager) Get(id string) (*Surface, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.surfaces[id]
	return s, ok
}

// Remove drops a surface and returns it.
func (m *Manager) Remove(id string) (*Surface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.surfaces[id]
	if ok {
		delete(m.surfaces, id)
	}
	return s, ok
}

// Len returns the number of live surfaces.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.surfaces)
}

// FileIDs returns the stored file ids currently backing a selection.
func (m *Manager) FileIDs() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make(map[string]bool, len(m.surfaces))
	for _, s := range m.surfaces {
		if id := s.FileID(); id != "" {
			ids[id] = true
		}
	}
	return ids
}

// CleanupIdle removes surfaces untouched for longer than maxAge and returns
// them so their files can be released. Surfaces with an attempt in flight or
// a live view stream are kept.
func (m *Manager) CleanupIdle(maxAge time.Duration) []*Surface {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var removed []*Surface
	for id, s := range m.surfaces {
		if s.Controller.Busy() || s.Controller.Watched() {
			continue
		}
		if s.Controller.LastActive().Before(cutoff) {
			delete(m.surfaces, id)
			removed = append(removed, s)
		}
	}
	return removed
}

package repository

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("not found")

// MemorySessionRepository keeps sessions in process memory. Get returns a
// copy; callers persist changes with Save.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionRepository returns an empty session store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]models.Session)}
}

// Create stores and returns a new anonymous session.
func (m *MemorySessionRepository) Create(_ context.Context) (*models.Session, error) {
	s := models.NewSession(uuid.NewString())
	m.mu.Lock()
	m.sessions[s.ID] = clone(*s)
	m.mu.Unlock()
	return s, nil
}

// Get returns a copy of the session with the given id.
func (m *MemorySessionRepository) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(s)
	return &out, nil
}

// Save replaces the stored state of s.
func (m *MemorySessionRepository) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	m.sessions[s.ID] = clone(*s)
	return nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (m *MemorySessionRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (m *MemorySessionRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func clone(s models.Session) models.Session {
	f := &s.Filters
	f.Location = slices.Clone(f.Location)
	f.ClimbingType = slices.Clone(f.ClimbingType)
	f.Water = slices.Clone(f.Water)
	f.WinterHardiness = slices.Clone(f.WinterHardiness)
	f.Soil = slices.Clone(f.Soil)
	f.Growth = slices.Clone(f.Growth)
	return s
}

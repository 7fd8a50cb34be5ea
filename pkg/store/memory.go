package store

import (
	"fmt"
	"sync"

	"github.com/hwaller/rosterdesk/pkg/model"
)

// MemoryStore provides an in-memory Store implementation for tests and for
// running without a database file. It mirrors SQLite behavior for ordering
// and error handling.
type MemoryStore struct {
	mu sync.RWMutex

	order      []string
	activities map[string]*model.Activity
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		activities: make(map[string]*model.Activity),
	}
}

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() error {
	return nil
}

// ListActivities returns a snapshot of all activities in creation order.
func (s *MemoryStore) ListActivities() (*model.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roster := model.NewRoster()
	for _, name := range s.order {
		roster.Set(name, *s.activities[name])
	}
	return roster, nil
}

// GetActivity retrieves one activity. Returns (nil, nil) if not found.
func (s *MemoryStore) GetActivity(name string) (*model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		return nil, nil
	}
	c := a.Clone()
	return &c, nil
}

// CreateActivity adds a new activity at the end of the listing order.
func (s *MemoryStore) CreateActivity(name string, a model.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[name]; ok {
		return fmt.Errorf("store: create activity %q: %w", name, model.ErrActivityExists)
	}
	c := a.Clone()
	s.activities[name] = &c
	s.order = append(s.order, name)
	return nil
}

// AddParticipant enrolls email in the named activity.
func (s *MemoryStore) AddParticipant(activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[activity]
	if !ok {
		return model.ErrActivityNotFound
	}
	if a.HasParticipant(email) {
		return model.ErrAlreadySignedUp
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// RemoveParticipant removes email from the named activity.
func (s *MemoryStore) RemoveParticipant(activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[activity]
	if !ok {
		return model.ErrActivityNotFound
	}
	if !a.HasParticipant(email) {
		return model.ErrNotSignedUp
	}
	kept := a.Participants[:0]
	for _, p := range a.Participants {
		if p != email {
			kept = append(kept, p)
		}
	}
	a.Participants = kept
	return nil
}

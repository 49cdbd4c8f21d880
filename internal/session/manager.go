// Package session keeps one live form state per onboarding attempt.
// A session is created when the form is opened and removed when the form
// is discarded, submitted, or expires; removal releases every preview
// the form still owns.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"center-onboard/internal/form"
	"center-onboard/internal/storage"
)

// DefaultTTL is how long an untouched session is kept before cleanup.
const DefaultTTL = 30 * time.Minute

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

type record struct {
	mu           sync.Mutex
	state        form.State
	lastAccessed time.Time
}

// Manager owns the live form sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*record
	images   *storage.ImageStore
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager backed by the given image store.
func NewManager(images *storage.ImageStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*record),
		images:   images,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new empty form session and returns its id and state.
func (m *Manager) Create() (string, form.State) {
	m.sweepExpired()

	id := uuid.New().String()
	state := form.NewState()

	m.mu.Lock()
	m.sessions[id] = &record{state: state, lastAccessed: m.now()}
	m.mu.Unlock()

	return id, state
}

// Get returns the current state of a session.
func (m *Manager) Get(id string) (form.State, error) {
	rec, err := m.lookup(id)
	if err != nil {
		return form.State{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.lastAccessed = m.now()
	return rec.state, nil
}

// Dispatch applies one event to a session and returns the resulting
// state. Removing an image also releases its preview and deletes its
// file, so repeated add/remove cycles cannot leak resources.
func (m *Manager) Dispatch(id string, ev form.Event) (form.State, error) {
	rec, err := m.lookup(id)
	if err != nil {
		return form.State{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	var removed *form.Image
	if rm, ok := ev.(form.ImageRemoved); ok {
		if rm.Index >= 0 && rm.Index < len(rec.state.Record.Images) {
			img := rec.state.Record.Images[rm.Index]
			removed = &img
		}
	}

	rec.state = form.Apply(rec.state, ev)
	rec.lastAccessed = m.now()

	if removed != nil {
		m.images.Discard(*removed)
	}

	return rec.state, nil
}

// Remove tears a session down, releasing every preview and image file
// the form still holds.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	rec, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, img := range rec.state.Record.Images {
		m.images.Discard(img)
	}
	return nil
}

// Detach removes a session without discarding its images. Used after a
// successful submit, when the images now belong to the persisted center;
// previews are still released.
func (m *Manager) Detach(id string) error {
	m.mu.Lock()
	rec, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, img := range rec.state.Record.Images {
		m.images.ReleasePreview(img.PreviewID)
	}
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id string) (*record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// sweepExpired drops sessions idle past the TTL, releasing their
// resources.
func (m *Manager) sweepExpired() {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*record
	for id, rec := range m.sessions {
		if rec.lastAccessed.Before(cutoff) {
			expired = append(expired, rec)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, rec := range expired {
		rec.mu.Lock()
		for _, img := range rec.state.Record.Images {
			m.images.Discard(img)
		}
		rec.mu.Unlock()
	}
}

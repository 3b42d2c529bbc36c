package session

import (
	"errors"
	"sync"
	"time"

	"BudgetLens/internal/checksum"
	"BudgetLens/internal/table"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found or expired")

// Session is one uploaded workbook. The parsed table is immutable; every
// report request derives filtered views from it without touching the original.
type Session struct {
	ID          string
	Filename    string
	Fingerprint string
	Table       *table.Table
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Manager keeps uploaded workbooks in memory keyed by session id. Re-uploading
// identical bytes reuses the already parsed table under a fresh session.
type Manager struct {
	ttl      time.Duration
	sessions map[string]*Session
	byHash   map[string]*table.Table
	mu       sync.Mutex
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		byHash:   make(map[string]*table.Table),
	}
}

// Create parses the upload and registers a session for it. Parse and
// validation errors propagate from the loader untouched.
func (m *Manager) Create(data []byte, filename string) (*Session, error) {
	fp := checksum.Fingerprint(data)

	m.mu.Lock()
	cached := m.byHash[fp]
	m.mu.Unlock()

	t := cached
	if t == nil {
		parsed, err := table.Load(data, filename)
		if err != nil {
			return nil, err
		}
		t = parsed
	}

	now := time.Now()
	s := &Session{
		ID:          uuid.NewString(),
		Filename:    filename,
		Fingerprint: fp,
		Table:       t,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.byHash[fp] = t
	m.mu.Unlock()
	return s, nil
}

// Get returns the session and slides its expiry forward.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, ErrNotFound
	}
	s.ExpiresAt = time.Now().Add(m.ttl)
	return s, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// CleanupExpired drops expired sessions and any parsed table no live session
// references. Returns how many sessions were removed.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}

	live := make(map[string]bool, len(m.sessions))
	for _, s := range m.sessions {
		live[s.Fingerprint] = true
	}
	for fp := range m.byHash {
		if !live[fp] {
			delete(m.byHash, fp)
		}
	}
	return removed
}

// Count reports live sessions, for the health endpoint.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

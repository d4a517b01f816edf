package player

import (
	"log"
	"sync"
	"time"
)

// DefaultIdleTTL is how long a watch session survives without transport
// activity before the janitor sweeps it.
const DefaultIdleTTL = 2 * time.Hour

type sessionKey struct {
	userID    string
	contentID string
}

type session struct {
	transport *Transport
	media     *VirtualMedia
	lastUsed  time.Time
}

// Manager holds one transport per (user, content) pair so members resume
// where they stopped.
type Manager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*session
	idleTTL  time.Duration
	now      func() time.Time
}

func NewManager(idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Manager{
		sessions: make(map[sessionKey]*session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Session returns the transport for a (user, content) pair, creating and
// autoplaying a fresh one on first use. duration may be NaN when the
// media length is unknown.
func (m *Manager) Session(userID, contentID string, duration float64) *Transport {
	key := sessionKey{userID: userID, contentID: contentID}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		s.lastUsed = m.now()
		return s.transport
	}

	media := NewVirtualMedia(duration)
	transport := NewTransport(media, nil)
	m.sessions[key] = &session{
		transport: transport,
		media:     media,
		lastUsed:  m.now(),
	}
	transport.Load()
	return transport
}

// SetDuration records the media length once the member's browser has
// loaded metadata. Seeks are no-ops until this arrives.
func (m *Manager) SetDuration(userID, contentID string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionKey{userID: userID, contentID: contentID}]; ok {
		s.media.SetDuration(duration)
		s.lastUsed = m.now()
	}
}

// Drop removes one session, abandoning its position.
func (m *Manager) Drop(userID, contentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey{userID: userID, contentID: contentID})
}

func (m *Manager) sweep() int {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps idle sessions on a fixed interval for the life of
// the process.
func (m *Manager) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if removed := m.sweep(); removed > 0 {
				log.Printf("player: swept %d idle watch sessions", removed)
			}
		}
	}()
}

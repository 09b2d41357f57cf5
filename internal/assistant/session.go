package assistant

import (
	"sync"
	"time"

	"github.com/justestif/go-mood-music-assistant/internal/mood"
)

// Session is the per-user conversation context passed to every turn. Its
// history is only ever appended to, one complete record per finished turn.
type Session struct {
	ID        string
	CreatedAt time.Time

	turn sync.Mutex

	mu      sync.RWMutex
	busy    bool
	history []mood.SessionRecord
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// History returns a copy of the completed turns, oldest first.
func (s *Session) History() []mood.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]mood.SessionRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of completed turns.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Busy reports whether a turn is currently running.
func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// begin claims the session for one turn. It returns false if another turn holds it.
func (s *Session) begin() bool {
	if !s.turn.TryLock() {
		return false
	}
	s.mu.Lock()
	s.busy = true
	s.mu.Unlock()
	return true
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	s.turn.Unlock()
}

func (s *Session) append(rec mood.SessionRecord) {
	s.mu.Lock()
	s.history = append(s.history, rec)
	s.mu.Unlock()
}

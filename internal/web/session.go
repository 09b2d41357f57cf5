// Package web provides the HTTP server and web UI for the mood music assistant.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/justestif/go-mood-music-assistant/internal/assistant"
)

const (
	sessionCookieName = "session_id"
	sessionTTL        = 24 * time.Hour
)

// Session is a browser session. Each one owns an isolated conversation.
type Session struct {
	ID           string
	CreatedAt    time.Time
	Conversation *assistant.Session
}

func (s *Session) expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > sessionTTL
}

// SessionManager defines the interface for session management.
type SessionManager interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) *Session
	Delete(ctx context.Context, id string)
	GetFromRequest(r *http.Request) *Session
	SetCookie(w http.ResponseWriter, session *Session)
	ClearCookie(w http.ResponseWriter)
}

// SessionStore manages browser sessions in memory. Conversations are lost on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a new session with an empty conversation. Expired sessions
// are dropped at the same time.
func (s *SessionStore) Create(_ context.Context) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &Session{
		ID:           id,
		CreatedAt:    now,
		Conversation: assistant.NewSession(id),
	}

	s.mu.Lock()
	for key, existing := range s.sessions {
		if existing.expired(now) {
			delete(s.sessions, key)
		}
	}
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}

	// Check if session has expired
	if session.expired(s.now()) {
		return nil
	}

	return session
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// GetFromRequest extracts the session from the request cookie.
func (s *SessionStore) GetFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return s.Get(r.Context(), cookie.Value)
}

// SetCookie sets the session cookie on the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// ClearCookie removes the session cookie from the response.
func (s *SessionStore) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateSessionID creates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var _ SessionManager = (*SessionStore)(nil)

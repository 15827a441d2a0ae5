// Package session tracks live UI sessions per feature.
//
// Each tracking feature keeps at most one live session; callers look up an
// existing session or create one under a single lock. The registry is an
// explicit object handed to the UI layer, not process-global state.
package session

import "sync"

// Session is one live feature session.
type Session struct {
	Feature string

	closeOnce sync.Once
	onClose   func()
}

// OnClose registers a cleanup hook run exactly once when the session
// closes. Later registrations replace earlier ones.
func (s *Session) OnClose(fn func()) {
	s.onClose = fn
}

// Registry keeps at most one live session per feature id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Acquire returns the live session for the feature, creating one if none
// exists. The second result is true when the session already existed.
func (r *Registry) Acquire(feature string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[feature]; ok {
		return s, true
	}

	s := &Session{Feature: feature}
	r.sessions[feature] = s

	return s, false
}

// Close ends the feature's session, running its cleanup hook. Closing an
// absent feature is a no-op.
func (r *Registry) Close(feature string) {
	r.mu.Lock()
	s, ok := r.sessions[feature]
	delete(r.sessions, feature)
	r.mu.Unlock()

	if ok {
		s.close()
	}
}

// CloseAll ends every live session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
	})
}

package telemetry

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds per-session pipeline state. It replaces any notion of
// process-wide flags: every Processor owns exactly one Session, and a
// new session means a new Processor.
type Session struct {
	mu         sync.Mutex
	id         string
	identified bool
}

// NewSession creates a session with a fresh random identifier.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// MarkIdentified latches the identified flag. It returns true only on
// the first call, giving callers single-fire semantics for the
// identification signal.
func (s *Session) MarkIdentified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identified {
		return false
	}
	s.identified = true
	return true
}

// Identified reports whether the session has been identified.
func (s *Session) Identified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identified
}

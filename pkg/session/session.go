package session

import (
	"errors"
	"time"

	"github.com/aretw0/espalier/pkg/automaton"
)

// ErrNotFound is returned when a session ID has no persisted state.
var ErrNotFound = errors.New("session not found")

// Session is the durable position of one machine instance. It carries
// everything needed to rebuild the instance: the machine name resolves the
// definition, Current restores the position.
type Session struct {
	ID        string          `json:"id"`
	Machine   string          `json:"machine"`
	Current   automaton.State `json:"current"`
	Steps     int             `json:"steps"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New creates a session positioned at the machine's start state.
func New(id, machine string, start automaton.State) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Machine:   machine,
		Current:   start,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance records a taken transition.
func (s *Session) Advance(to automaton.State) {
	s.Current = to
	s.Steps++
	s.UpdatedAt = time.Now().UTC()
}

// Rewind puts the session back at the start state, as if freshly created.
// The step counter restarts from zero.
func (s *Session) Rewind(start automaton.State) {
	s.Current = start
	s.Steps = 0
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns an independent copy. All fields are values, so the copy
// shares nothing with the receiver.
func (s *Session) Clone() *Session {
	out := *s
	return &out
}

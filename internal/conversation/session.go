package conversation

import (
	"sync"
)

// Turn roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry in a conversation history.
type Turn struct {
	Role    string
	Content string
}

// Session is the per-sender conversation state. The first turn is always the
// fixed system instruction; turns are append-only for the life of the
// process. The embedded mutex serializes the whole pipeline per sender, so
// two near-simultaneous messages from one sender cannot interleave.
type Session struct {
	mu     sync.Mutex
	turns  []Turn
	leadID string
}

// Lock acquires the per-sender lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-sender lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Append adds a turn. Callers must hold the session lock.
func (s *Session) Append(role, content string) {
	s.turns = append(s.turns, Turn{Role: role, Content: content})
}

// Turns returns a copy of the history. Callers must hold the session lock.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// LeadID returns the id of the qualified lead already stored for this
// sender, or empty. Callers must hold the session lock.
func (s *Session) LeadID() string { return s.leadID }

// SetLeadID records the sender's stored lead. Callers must hold the session lock.
func (s *Session) SetLeadID(id string) { s.leadID = id }

// SessionStore is a keyed concurrent-safe map of sender sessions. Sessions
// are created on first use and live for the process lifetime; there is no
// eviction.
type SessionStore struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	systemPrompt string
}

// NewSessionStore creates a session store seeding every new session with the
// given system instruction.
func NewSessionStore(systemPrompt string) *SessionStore {
	return &SessionStore{
		sessions:     make(map[string]*Session),
		systemPrompt: systemPrompt,
	}
}

// GetOrCreate returns the sender's session, creating and seeding it on first
// use. Creation is atomic: two concurrent first messages observe one session.
func (s *SessionStore) GetOrCreate(sender string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sender]; ok {
		return session
	}

	session := &Session{
		turns: []Turn{{Role: RoleSystem, Content: s.systemPrompt}},
	}
	s.sessions[sender] = session
	return session
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

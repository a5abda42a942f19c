package roster

import "sync"

// ConversationState is the per-user registration conversation state. The
// flow has exactly two states and a single transition edge: a freshly
// registered participant without a stored name is moved to
// StateAwaitingName, and submitting a name moves them back to StateIdle.
type ConversationState int

const (
	StateIdle ConversationState = iota
	StateAwaitingName
)

// ConversationStore keeps conversation state per user, in memory. It is
// deliberately independent of any chat transport's session model and safe
// for concurrent events.
type ConversationStore struct {
	mu     sync.RWMutex
	states map[int64]ConversationState
}

// NewConversationStore creates an empty conversation store
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		states: make(map[int64]ConversationState),
	}
}

// Get returns the state for a user, StateIdle when none is recorded
func (s *ConversationStore) Get(userID int64) ConversationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[userID]
}

// Set records the state for a user
func (s *ConversationStore) Set(userID int64, state ConversationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

// Clear returns a user to StateIdle
func (s *ConversationStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

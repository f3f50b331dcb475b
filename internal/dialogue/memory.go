package dialogue

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"intentd/pkg/types"
)

// DefaultSession is used when a caller does not name a session. Every such
// caller shares one transcript.
const DefaultSession = "default"

// Store holds one append-only transcript per session in process memory.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]types.Exchange
	now      func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string][]types.Exchange), now: time.Now}
}

// SessionKey normalizes a caller-supplied session id.
func SessionKey(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultSession
	}
	return id
}

// Append records one exchange at the end of the session transcript.
func (s *Store) Append(session, userInput, assistantResponse string) types.Exchange {
	ex := types.Exchange{
		ID:                uuid.NewString(),
		UserInput:         userInput,
		AssistantResponse: assistantResponse,
		CreatedAt:         s.now().UTC(),
	}
	key := SessionKey(session)
	s.mu.Lock()
	s.sessions[key] = append(s.sessions[key], ex)
	s.mu.Unlock()
	return ex
}

// History returns a copy of the session transcript, oldest first.
func (s *Store) History(session string) []types.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Exchange{}, s.sessions[SessionKey(session)]...)
}

// Len reports the number of exchanges in the session.
func (s *Store) Len(session string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[SessionKey(session)])
}

// Reset drops the session transcript.
func (s *Store) Reset(session string) {
	s.mu.Lock()
	delete(s.sessions, SessionKey(session))
	s.mu.Unlock()
}

// Sessions lists sessions with at least one exchange.
func (s *Store) Sessions() []string {
	s.mu.Lock()
	out := make([]string, 0, len(s.sessions))
	for k := range s.sessions {
		out = append(out, k)
	}
	s.mu.Unlock()
	sort.Strings(out)
	return out
}

// Package session holds per-conversation state between turns. The store is
// read before and written after every turn; the orchestrator itself is
// stateless.
package session

import (
	"sync"

	"github.com/sandevgo/matria/internal/core"
)

// Store is the context storage consumed by the triage service.
type Store interface {
	Get(sessionID string) (*core.ConversationContext, bool)
	Put(cc *core.ConversationContext)
	Delete(sessionID string)
}

// MemoryStore is the in-process implementation. Contexts are owned by the
// store between turns; callers get the live pointer and must finish the turn
// before the next one for the same session starts.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*core.ConversationContext
	historyCap int
}

// NewMemoryStore caps the per-session message history at historyCap entries;
// zero or negative means unbounded.
func NewMemoryStore(historyCap int) *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]*core.ConversationContext),
		historyCap: historyCap,
	}
}

func (s *MemoryStore) Get(sessionID string) (*core.ConversationContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cc, ok := s.sessions[sessionID]
	return cc, ok
}

func (s *MemoryStore) Put(cc *core.ConversationContext) {
	if cc == nil || cc.SessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Trim the oldest messages once the window overflows; accumulated
	// symptoms and risk state are never trimmed.
	if s.historyCap > 0 && len(cc.Messages) > s.historyCap {
		cc.Messages = cc.Messages[len(cc.Messages)-s.historyCap:]
	}
	s.sessions[cc.SessionID] = cc
}

func (s *MemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

package memory

import (
	"sync"

	"github.com/cloudwego/eino/schema"
)

// Store keeps bounded per-thread conversation history. Thread tokens are
// opaque; the session service issues one per stateful module per session,
// so histories are never shared across sessions.
type Store struct {
	mu      sync.RWMutex
	threads map[string][]*schema.Message
	window  int
}

// NewStore returns a Store that keeps at most window messages per thread.
func NewStore(window int) *Store {
	if window < 2 {
		window = 2
	}
	return &Store{
		threads: make(map[string][]*schema.Message),
		window:  window,
	}
}

// Append adds messages to the thread history and prunes the window.
func (s *Store) Append(thread string, msgs ...*schema.Message) {
	if thread == "" || len(msgs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.threads[thread], msgs...)
	s.threads[thread] = prune(history, s.window)
}

// History returns a copy of the thread's current window.
func (s *Store) History(thread string) []*schema.Message {
	if thread == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.threads[thread]
	copied := make([]*schema.Message, len(history))
	copy(copied, history)
	return copied
}

// prune keeps the most recent window messages, then advances the start past
// any assistant/tool messages so the window never opens on an orphaned
// tool-call exchange.
func prune(history []*schema.Message, window int) []*schema.Message {
	if len(history) <= window {
		return history
	}

	start := len(history) - window
	for start < len(history) && history[start].Role != schema.User {
		start++
	}
	if start >= len(history) {
		start = len(history) - 1
	}
	return append([]*schema.Message(nil), history[start:]...)
}

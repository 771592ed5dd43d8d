// Package session implements the coordinator that owns per-conversation
// state: sticky module bindings, thread tokens and the uniform turn-reply
// contract.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chatfood/chatfood/internal/model/conv"
	"github.com/chatfood/chatfood/internal/module"
)

var ErrSessionNotFound = errors.New("session not found")

// Fixed coordinator replies. Turn-level failures always surface as reply
// text; SubmitTurn only errors for unknown sessions.
const (
	ReplyEmptyInput   = "Please type something."
	ReplyReleased     = "Current module released."
	ReplyIrrelevant   = "I can only answer food-related questions (recipes, ingredients, nutrition, restaurants, ordering)."
	ReplyNoModule     = "Could not determine the right module."
	ReplyNoResponse   = "(No response)"
	noticeSelectedFmt = "Module selected: %s"
)

var exitWords = map[string]struct{}{
	"exit":    {},
	"quit":    {},
	"bye":     {},
	"goodbye": {},
}

// Classifier routes a fresh turn to a module identity. It is consulted
// only when no module is bound.
type Classifier interface {
	Classify(ctx context.Context, text string) conv.Module
}

type sessionState struct {
	mu      sync.Mutex // serializes turns within one session
	session conv.Session
}

// Service is the session coordinator. Sessions are independent; each one
// processes a single turn at a time while different sessions run
// concurrently.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState

	router   Classifier
	registry *module.Registry
}

// NewService wires the coordinator to the router and the module registry.
func NewService(router Classifier, registry *module.Registry) *Service {
	return &Service{
		sessions: make(map[string]*sessionState),
		router:   router,
		registry: registry,
	}
}

// StartSession provisions an unbound session with fresh thread tokens for
// the stateful modules. Tokens are stable for the session's lifetime and
// never shared across sessions.
func (s *Service) StartSession(_ context.Context) (conv.Session, error) {
	session := conv.Session{
		ID: uuid.NewString(),
		Threads: map[conv.Module]string{
			conv.ModuleSuggestion: uuid.NewString(),
			conv.ModuleServices:   uuid.NewString(),
		},
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionState{session: session}
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session snapshot by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (conv.Session, error) {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return conv.Session{}, ErrSessionNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.session, nil
}

// SubmitTurn processes one user turn to completion. All turn-level
// failures are converted to reply text; the error return is reserved for
// unknown session ids.
func (s *Service) SubmitTurn(ctx context.Context, sessionID, text string) (conv.TurnReply, error) {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return conv.TurnReply{}, ErrSessionNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return conv.TurnReply{Text: ReplyEmptyInput}, nil
	}

	if _, isExit := exitWords[strings.ToLower(trimmed)]; isExit {
		st.session.Active = conv.ModuleNone
		return conv.TurnReply{Text: ReplyReleased}, nil
	}

	reply := conv.TurnReply{}

	if st.session.Active == conv.ModuleNone {
		selected := s.router.Classify(ctx, trimmed)
		log.Printf("[session] %s routed to %q", sessionID, selected)
		if !selected.Valid() {
			return conv.TurnReply{Text: ReplyIrrelevant}, nil
		}
		st.session.Active = selected
		reply.Notice = fmt.Sprintf(noticeSelectedFmt, selected)
	}

	active := st.session.Active
	reply.Module = active

	handler, ok := s.registry.Get(active)
	if !ok {
		st.session.Active = conv.ModuleNone
		reply.Text = ReplyNoModule
		return reply, nil
	}

	text, err := dispatch(ctx, handler, st.session.Thread(active), trimmed)
	if err != nil {
		// The failure is surfaced as reply text and the binding stays
		// exactly as it was when dispatch began.
		log.Printf("[session] %s dispatch to %s failed: %v", sessionID, active, err)
		reply.Text = "Error: " + err.Error()
		return reply, nil
	}

	if text == "" {
		text = ReplyNoResponse
	}
	reply.Text = text

	if !handler.Sticky() {
		st.session.Active = conv.ModuleNone
	}
	return reply, nil
}

// dispatch invokes the handler with a panic boundary so a misbehaving
// module can never corrupt session state.
func dispatch(ctx context.Context, h module.Handler, thread, text string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return h.Handle(ctx, thread, text)
}

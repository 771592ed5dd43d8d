// Package module defines the contract shared by the assistant's
// conversational modules and the registry the session service dispatches
// through.
package module

import (
	"context"

	"github.com/chatfood/chatfood/internal/model/conv"
)

// Handler is one conversational capability. Handle processes a single user
// turn; thread is the session-scoped memory token ("" for stateless
// modules) and the returned string is the user-visible reply.
type Handler interface {
	Name() conv.Module
	// Sticky reports whether the session stays bound to this module after
	// a reply. Non-sticky modules are released after every turn.
	Sticky() bool
	Handle(ctx context.Context, thread, text string) (string, error)
}

// Registry holds one immutable handler per module identity. It is built
// once at startup and addressed per call with session-scoped threads, so
// no per-session graph state ever lives here.
type Registry struct {
	handlers map[conv.Module]Handler
}

// NewRegistry indexes the supplied handlers by module identity.
func NewRegistry(handlers ...Handler) *Registry {
	indexed := make(map[conv.Module]Handler, len(handlers))
	for _, h := range handlers {
		indexed[h.Name()] = h
	}
	return &Registry{handlers: indexed}
}

// Get returns the handler bound to the module identity.
func (r *Registry) Get(m conv.Module) (Handler, bool) {
	h, ok := r.handlers[m]
	return h, ok
}

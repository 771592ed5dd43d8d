// Package assistant exposes the turn-level HTTP contract: session
// creation, turn submission and a streaming variant.
package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chatfood/chatfood/internal/service/session"
	"github.com/chatfood/chatfood/pkg/utils"
)

// Handler adapts the session service to HTTP.
type Handler struct {
	sessions *session.Service
}

// New creates the assistant handler.
func New(sessions *session.Service) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes registers the conversational routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/chat", h.handleChat)
	r.Get("/stream/{sessionID}", h.handleStream)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.StartSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sess)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Text      string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	reply, err := h.sessions.SubmitTurn(r.Context(), payload.SessionID, payload.Text)
	if errors.Is(err, session.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

// handleStream answers a single turn over SSE: an optional "status" event
// with the module-selected notice, then a "reply" event with the text.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	message := r.URL.Query().Get("message")

	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	reply, err := h.sessions.SubmitTurn(r.Context(), sessionID, message)
	if errors.Is(err, session.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SetupSSEHeaders(w)

	if reply.Notice != "" {
		utils.SendSSEEvent(w, flusher, "status", map[string]any{
			"notice": reply.Notice,
			"module": reply.Module,
		})
	}
	utils.SendSSEEvent(w, flusher, "reply", map[string]any{
		"reply":  reply.Text,
		"module": reply.Module,
	})
}

package assistant

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/chatfood/chatfood/internal/service/session"
	"github.com/chatfood/chatfood/pkg/utils"
)

// WebSocketHandler serves an interactive chat socket bound to one session.
type WebSocketHandler struct {
	sessions *session.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the socket handler.
func NewWebSocketHandler(sessions *session.Service) *WebSocketHandler {
	return &WebSocketHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Data struct {
		Text string `json:"text"`
	} `json:"data"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.sessions.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] session=%s connected", sessionID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] session=%s read error: %v", sessionID, err)
			}
			return
		}

		if inbound.Type != "user_text" {
			h.send(conn, outgoingMessage{Type: "error", Data: map[string]string{
				"message": "unsupported message type",
			}})
			continue
		}

		reply, err := h.sessions.SubmitTurn(r.Context(), sessionID, inbound.Data.Text)
		if errors.Is(err, session.ErrSessionNotFound) {
			h.send(conn, outgoingMessage{Type: "error", Data: map[string]string{
				"message": "session not found",
			}})
			return
		}
		if err != nil {
			h.send(conn, outgoingMessage{Type: "error", Data: map[string]string{
				"message": err.Error(),
			}})
			continue
		}

		if reply.Notice != "" {
			h.send(conn, outgoingMessage{Type: "notice", Data: map[string]any{
				"notice": reply.Notice,
				"module": reply.Module,
			}})
		}
		h.send(conn, outgoingMessage{Type: "reply", Data: map[string]any{
			"reply":  reply.Text,
			"module": reply.Module,
		}})
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}

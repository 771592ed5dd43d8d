package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/chatfood/chatfood/internal/model/conv"
	"github.com/chatfood/chatfood/internal/module"
	"github.com/chatfood/chatfood/internal/service/session"
)

type fixedClassifier struct{ result conv.Module }

func (f *fixedClassifier) Classify(_ context.Context, _ string) conv.Module { return f.result }

type echoHandler struct {
	name   conv.Module
	sticky bool
}

func (h *echoHandler) Name() conv.Module { return h.name }
func (h *echoHandler) Sticky() bool      { return h.sticky }

func (h *echoHandler) Handle(_ context.Context, _, text string) (string, error) {
	return "echo: " + text, nil
}

func newTestRouter(classified conv.Module, handlers ...module.Handler) chi.Router {
	sessions := session.NewService(&fixedClassifier{result: classified}, module.NewRegistry(handlers...))
	r := chi.NewRouter()
	New(sessions).RegisterRoutes(r)
	return r
}

func createSession(t *testing.T, r chi.Router) conv.Session {
	t.Helper()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d", rec.Code)
	}

	var sess conv.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session id missing")
	}
	return sess
}

func postChat(r chi.Router, sessionID, text string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"sessionId": sessionID, "text": text})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func TestChatRoundTrip(t *testing.T) {
	r := newTestRouter(conv.ModuleInfo, &echoHandler{name: conv.ModuleInfo})
	sess := createSession(t, r)

	rec := postChat(r, sess.ID, "how do I cook rice?")
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var reply conv.TurnReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Text != "echo: how do I cook rice?" {
		t.Fatalf("reply = %q", reply.Text)
	}
	if reply.Notice == "" {
		t.Fatal("fresh binding must carry a notice")
	}
	if reply.Module != conv.ModuleInfo {
		t.Fatalf("module = %q", reply.Module)
	}
}

func TestChatUnknownSession(t *testing.T) {
	r := newTestRouter(conv.ModuleInfo)

	rec := postChat(r, "no-such-session", "hello")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChatMissingSessionID(t *testing.T) {
	r := newTestRouter(conv.ModuleInfo)

	rec := postChat(r, "", "hello")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChatInvalidBody(t *testing.T) {
	r := newTestRouter(conv.ModuleInfo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStreamEmitsStatusAndReplyEvents(t *testing.T) {
	r := newTestRouter(conv.ModuleSuggestion, &echoHandler{name: conv.ModuleSuggestion})
	sess := createSession(t, r)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/stream/"+sess.ID+"?message=something+spicy", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("stream status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: status") {
		t.Fatalf("missing status event: %s", body)
	}
	if !strings.Contains(body, "event: reply") {
		t.Fatalf("missing reply event: %s", body)
	}
	if !strings.Contains(body, "echo: something spicy") {
		t.Fatalf("missing reply text: %s", body)
	}
}

func TestStreamRequiresMessage(t *testing.T) {
	r := newTestRouter(conv.ModuleInfo)
	sess := createSession(t, r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream/"+sess.ID, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

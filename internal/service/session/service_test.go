package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/chatfood/chatfood/internal/model/conv"
	"github.com/chatfood/chatfood/internal/module"
)

type fixedClassifier struct {
	result conv.Module
	calls  int
}

func (f *fixedClassifier) Classify(_ context.Context, _ string) conv.Module {
	f.calls++
	return f.result
}

type stubHandler struct {
	name    conv.Module
	sticky  bool
	reply   string
	err     error
	panics  bool
	calls   int
	threads []string
}

func (h *stubHandler) Name() conv.Module { return h.name }
func (h *stubHandler) Sticky() bool      { return h.sticky }

func (h *stubHandler) Handle(_ context.Context, thread, _ string) (string, error) {
	h.calls++
	h.threads = append(h.threads, thread)
	if h.panics {
		panic("handler exploded")
	}
	return h.reply, h.err
}

func newTestService(classified conv.Module, handlers ...module.Handler) (*Service, *fixedClassifier) {
	classifier := &fixedClassifier{result: classified}
	return NewService(classifier, module.NewRegistry(handlers...)), classifier
}

func startSession(t *testing.T, s *Service) conv.Session {
	t.Helper()
	session, err := s.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession err: %v", err)
	}
	return session
}

func TestStartSessionIssuesStableDistinctThreads(t *testing.T) {
	s, _ := newTestService(conv.ModuleInfo)

	a := startSession(t, s)
	b := startSession(t, s)

	if a.ID == b.ID {
		t.Fatal("session ids must be unique")
	}
	if a.Thread(conv.ModuleSuggestion) == "" || a.Thread(conv.ModuleServices) == "" {
		t.Fatal("stateful modules need thread tokens at session start")
	}
	if a.Thread(conv.ModuleSuggestion) == a.Thread(conv.ModuleServices) {
		t.Fatal("thread tokens must differ per module")
	}
	if a.Thread(conv.ModuleServices) == b.Thread(conv.ModuleServices) {
		t.Fatal("thread tokens must differ per session")
	}

	got, err := s.GetSession(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}
	if got.Thread(conv.ModuleServices) != a.Thread(conv.ModuleServices) {
		t.Fatal("thread tokens must be stable for the session's lifetime")
	}
}

func TestSubmitTurnUnknownSession(t *testing.T) {
	s, _ := newTestService(conv.ModuleInfo)

	if _, err := s.SubmitTurn(context.Background(), "no-such-id", "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitTurnEmptyInput(t *testing.T) {
	s, classifier := newTestService(conv.ModuleInfo)
	session := startSession(t, s)

	reply, err := s.SubmitTurn(context.Background(), session.ID, "   \t ")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if reply.Text != ReplyEmptyInput {
		t.Fatalf("got %q", reply.Text)
	}
	if classifier.calls != 0 {
		t.Fatal("empty input must not reach the router")
	}
}

func TestSubmitTurnIrrelevantLeavesSessionUnbound(t *testing.T) {
	handler := &stubHandler{name: conv.ModuleInfo, reply: "fact"}
	s, _ := newTestService(conv.ModuleIrrelevant, handler)
	session := startSession(t, s)

	reply, err := s.SubmitTurn(context.Background(), session.ID, "what's the weather?")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if reply.Text != ReplyIrrelevant {
		t.Fatalf("got %q", reply.Text)
	}
	if handler.calls != 0 {
		t.Fatal("irrelevant turns must not reach a handler")
	}

	got, _ := s.GetSession(context.Background(), session.ID)
	if got.Active != conv.ModuleNone {
		t.Fatalf("session must stay unbound, got %q", got.Active)
	}
}

func TestSubmitTurnFreshBindEmitsNotice(t *testing.T) {
	handler := &stubHandler{name: conv.ModuleInfo, reply: "eggs keep three weeks"}
	s, _ := newTestService(conv.ModuleInfo, handler)
	session := startSession(t, s)

	reply, err := s.SubmitTurn(context.Background(), session.ID, "how long do eggs keep?")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if want := fmt.Sprintf("Module selected: %s", conv.ModuleInfo); reply.Notice != want {
		t.Fatalf("notice = %q, want %q", reply.Notice, want)
	}
	if reply.Text != "eggs keep three weeks" {
		t.Fatalf("got %q", reply.Text)
	}
	if reply.Module != conv.ModuleInfo {
		t.Fatalf("module = %q", reply.Module)
	}
}

func TestSubmitTurnAutoReleasesSingleShotModules(t *testing.T) {
	handler := &stubHandler{name: conv.ModuleSuggestion, reply: "try the pad thai"}
	s, classifier := newTestService(conv.ModuleSuggestion, handler)
	session := startSession(t, s)

	if _, err := s.SubmitTurn(context.Background(), session.ID, "something spicy"); err != nil {
		t.Fatalf("first turn err: %v", err)
	}

	got, _ := s.GetSession(context.Background(), session.ID)
	if got.Active != conv.ModuleNone {
		t.Fatalf("single-shot module must auto-release, got %q", got.Active)
	}

	// Next turn routes again from scratch.
	if _, err := s.SubmitTurn(context.Background(), session.ID, "something sweet"); err != nil {
		t.Fatalf("second turn err: %v", err)
	}
	if classifier.calls != 2 {
		t.Fatalf("expected 2 routing calls, got %d", classifier.calls)
	}
}

func TestSubmitTurnStickyModuleSkipsRouter(t *testing.T) {
	handler := &stubHandler{name: conv.ModuleServices, sticky: true, reply: "which order id?"}
	s, classifier := newTestService(conv.ModuleServices, handler)
	session := startSession(t, s)

	if _, err := s.SubmitTurn(context.Background(), session.ID, "check my order"); err != nil {
		t.Fatalf("first turn err: %v", err)
	}
	reply, err := s.SubmitTurn(context.Background(), session.ID, "87")
	if err != nil {
		t.Fatalf("second turn err: %v", err)
	}
	if classifier.calls != 1 {
		t.Fatalf("sticky binding must bypass the router, got %d calls", classifier.calls)
	}
	if reply.Notice != "" {
		t.Fatalf("no notice on an existing binding, got %q", reply.Notice)
	}
	if handler.calls != 2 {
		t.Fatalf("handler calls = %d", handler.calls)
	}
	if handler.threads[0] != handler.threads[1] {
		t.Fatal("sticky turns must share one thread token")
	}
}

func TestSubmitTurnExitReleasesFromAnyState(t *testing.T) {
	handler := &stubHandler{name: conv.ModuleServices, sticky: true, reply: "ok"}
	s, _ := newTestService(conv.ModuleServices, handler)
	session := startSession(t, s)

	if _, err := s.SubmitTurn(context.Background(), session.ID, "cancel my order"); err != nil {
		t.Fatalf("bind turn err: %v", err)
	}

	for _, word := range []string{"exit", " Quit ", "BYE", "goodbye"} {
		reply, err := s.SubmitTurn(context.Background(), session.ID, word)
		if err != nil {
			t.Fatalf("exit %q err: %v", word, err)
		}
		if reply.Text != ReplyReleased {
			t.Fatalf("exit %q got %q", word, reply.Text)
		}
	}

	got, _ := s.GetSession(context.Background(), session.ID)
	if got.Active != conv.ModuleNone {
		t.Fatalf("exit must release the binding, got %q", got.Active)
	}
}

func TestSubmitTurnHandlerErrorKeepsBinding(t *testing.T) {
	handler := &stubHandler{name: conv.ModuleServices, sticky: true, err: errors.New("backend down")}
	s, _ := newTestService(conv.ModuleServices, handler)
	session := startSession(t, s)

	reply, err := s.SubmitTurn(context.Background(), session.ID, "cancel order 88")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if !strings.HasPrefix(reply.Text, "Error: ") {
		t.Fatalf("got %q", reply.Text)
	}

	got, _ := s.GetSession(context.Background(), session.ID)
	if got.Active != conv.ModuleServices {
		t.Fatalf("binding must survive a failed turn, got %q", got.Active)
	}
}

func TestSubmitTurnRecoversFromHandlerPanic(t *testing.T) {
	handler := &stubHandler{name: conv.ModuleInfo, panics: true}
	s, _ := newTestService(conv.ModuleInfo, handler)
	session := startSession(t, s)

	reply, err := s.SubmitTurn(context.Background(), session.ID, "how do I cook rice?")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if !strings.Contains(reply.Text, "handler exploded") {
		t.Fatalf("got %q", reply.Text)
	}

	// The session keeps working afterwards.
	handler.panics = false
	handler.reply = "rinse first"
	reply, err = s.SubmitTurn(context.Background(), session.ID, "how do I cook rice?")
	if err != nil {
		t.Fatalf("follow-up err: %v", err)
	}
	if reply.Text != "rinse first" {
		t.Fatalf("got %q", reply.Text)
	}
}

func TestSubmitTurnEmptyHandlerReplyIsPlaceholder(t *testing.T) {
	handler := &stubHandler{name: conv.ModuleServices, sticky: true, reply: ""}
	s, _ := newTestService(conv.ModuleServices, handler)
	session := startSession(t, s)

	reply, err := s.SubmitTurn(context.Background(), session.ID, "hm")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if reply.Text != ReplyNoResponse {
		t.Fatalf("got %q", reply.Text)
	}
}

func TestSubmitTurnUnregisteredModule(t *testing.T) {
	s, _ := newTestService(conv.ModuleInfo) // registry is empty
	session := startSession(t, s)

	reply, err := s.SubmitTurn(context.Background(), session.ID, "how do I cook rice?")
	if err != nil {
		t.Fatalf("SubmitTurn err: %v", err)
	}
	if reply.Text != ReplyNoModule {
		t.Fatalf("got %q", reply.Text)
	}

	got, _ := s.GetSession(context.Background(), session.ID)
	if got.Active != conv.ModuleNone {
		t.Fatalf("missing handler must unbind, got %q", got.Active)
	}
}

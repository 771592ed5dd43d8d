package info

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/chatfood/chatfood/internal/service/knowledge"
)

type fakeInvoker struct {
	content string
	err     error
	calls   int
}

func (f *fakeInvoker) Invoke(_ context.Context, _ map[string]any, _ ...compose.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

type fakeRetriever struct {
	docs  []*schema.Document
	err   error
	calls int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, _ ...retriever.Option) ([]*schema.Document, error) {
	f.calls++
	return f.docs, f.err
}

func TestParseRouteLabel(t *testing.T) {
	cases := []struct {
		raw  string
		want route
		ok   bool
	}{
		{"vectorstore", routeVectorstore, true},
		{" Vectorstore \n", routeVectorstore, true},
		{"`web_search`", routeWebSearch, true},
		{"'neither'.", routeNeither, true},
		{"use the vectorstore", "", false},
		{"vector", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := parseRouteLabel(c.raw)
		if ok != c.ok || got != c.want {
			t.Fatalf("parseRouteLabel(%q) = (%q, %v), want (%q, %v)", c.raw, got, ok, c.want, c.ok)
		}
	}
}

func TestHandleOffTopicQuestion(t *testing.T) {
	m := &Module{
		route: &fakeInvoker{content: "neither"},
		rag:   &fakeInvoker{content: "should not be reached"},
		docs:  &fakeRetriever{},
	}

	reply, err := m.Handle(context.Background(), "", "who won the league yesterday?")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if reply != replyOffTopic {
		t.Fatalf("expected %q, got %q", replyOffTopic, reply)
	}
}

func TestHandleWebSearchRouteReturnsNoAnswer(t *testing.T) {
	docs := &fakeRetriever{}
	m := &Module{
		route: &fakeInvoker{content: "web_search"},
		rag:   &fakeInvoker{content: "should not be reached"},
		docs:  docs,
	}

	reply, err := m.Handle(context.Background(), "", "latest food trends this month?")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if reply != replyNoAnswer {
		t.Fatalf("expected %q, got %q", replyNoAnswer, reply)
	}
	if docs.calls != 0 {
		t.Fatalf("web_search route must not hit the retriever, got %d calls", docs.calls)
	}
}

func TestHandleRetriesThenReportsInsufficientContext(t *testing.T) {
	docs := &fakeRetriever{}
	m := &Module{
		route:      &fakeInvoker{content: "vectorstore"},
		rag:        &fakeInvoker{content: "should not be reached"},
		docs:       docs,
		maxRetries: 2,
	}

	reply, err := m.Handle(context.Background(), "", "how do I cook rice?")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if reply != replyInsufficient {
		t.Fatalf("expected %q, got %q", replyInsufficient, reply)
	}
	if docs.calls != 3 {
		t.Fatalf("expected 3 retrieval attempts, got %d", docs.calls)
	}
}

func TestHandleRetrieverErrorPropagates(t *testing.T) {
	m := &Module{
		route: &fakeInvoker{content: "vectorstore"},
		rag:   &fakeInvoker{content: "should not be reached"},
		docs:  &fakeRetriever{err: errors.New("backend down")},
	}

	if _, err := m.Handle(context.Background(), "", "how do I cook rice?"); err == nil {
		t.Fatal("expected retriever error to propagate")
	}
}

func TestHandleBrokenRouterDefaultsToRetrieval(t *testing.T) {
	docs := &fakeRetriever{docs: []*schema.Document{{ID: "rice-cooking", Content: "Rinse rice before cooking."}}}
	m := &Module{
		route: &fakeInvoker{err: errors.New("router down")},
		rag:   &fakeInvoker{content: "Rinse the rice, then simmer covered."},
		docs:  docs,
	}

	reply, err := m.Handle(context.Background(), "", "how do I cook rice?")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if docs.calls == 0 {
		t.Fatal("broken router must still attempt retrieval")
	}
	if !strings.Contains(reply, "Rinse") {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestHandleAnswersFromSeedCorpus(t *testing.T) {
	m := &Module{
		route: &fakeInvoker{content: "vectorstore"},
		rag:   &fakeInvoker{content: "Use a 1:1.5 rice to water ratio and simmer covered."},
		docs:  knowledge.NewRetriever(knowledge.SeedCorpus(), 5),
	}

	reply, err := m.Handle(context.Background(), "", "what is the right water ratio for cooking rice?")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if !strings.Contains(reply, "ratio") {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestHandleEmptyGenerationReturnsNoAnswer(t *testing.T) {
	m := &Module{
		route: &fakeInvoker{content: "vectorstore"},
		rag:   &fakeInvoker{content: "   "},
		docs:  &fakeRetriever{docs: []*schema.Document{{ID: "x", Content: "text"}}},
	}

	reply, err := m.Handle(context.Background(), "", "how do I store eggs?")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if reply != replyNoAnswer {
		t.Fatalf("expected %q, got %q", replyNoAnswer, reply)
	}
}

func TestHandleWithoutModelDegrades(t *testing.T) {
	m := &Module{docs: &fakeRetriever{}}

	reply, err := m.Handle(context.Background(), "", "anything")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if reply != replyUnavailable {
		t.Fatalf("expected unavailable reply, got %q", reply)
	}
}

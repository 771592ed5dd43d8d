// Package info implements the food_info module: single-shot factual
// lookup grounded in the knowledge retriever.
package info

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/chatfood/chatfood/internal/model/conv"
)

// Reply sentinels. The off-topic and no-answer texts follow the assistant's
// established wording and are asserted by tests.
const (
	replyOffTopic     = "Sorry, this question is not related to food."
	replyNoAnswer     = "no answer found."
	replyInsufficient = "I could not find enough information in the knowledge base to answer that."
	replyUnavailable  = "The language model is not configured, so factual lookup is unavailable right now."
)

type invoker interface {
	Invoke(ctx context.Context, input map[string]any, opts ...compose.Option) (*schema.Message, error)
}

// Module answers factual food questions with a fixed decision graph:
// route -> retrieve -> grade -> generate. Every call starts from fresh
// state; the module keeps no cross-turn memory.
type Module struct {
	route      invoker
	rag        invoker
	docs       retriever.Retriever
	maxRetries int
}

// New builds the module. chatModel may be nil for degraded mode.
func New(ctx context.Context, chatModel model.ChatModel, docs retriever.Retriever, maxRetries int) (*Module, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	m := &Module{docs: docs, maxRetries: maxRetries}
	if chatModel == nil {
		return m, nil
	}

	route, err := compileChain(ctx, chatModel, routeSystemPrompt,
		"Question: {question}\nRoute:")
	if err != nil {
		return nil, fmt.Errorf("compile route chain: %w", err)
	}

	rag, err := compileChain(ctx, chatModel, ragSystemPrompt,
		"Context:\n{context}\n\nQuestion:\n{question}")
	if err != nil {
		return nil, fmt.Errorf("compile rag chain: %w", err)
	}

	m.route = route
	m.rag = rag
	return m, nil
}

func compileChain(ctx context.Context, chatModel model.ChatModel, system, user string) (compose.Runnable[map[string]any, *schema.Message], error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)
	return chain.Compile(ctx)
}

// Name implements module.Handler.
func (m *Module) Name() conv.Module { return conv.ModuleInfo }

// Sticky implements module.Handler; lookups are single-shot per binding.
func (m *Module) Sticky() bool { return false }

// Handle runs the decision graph for one question.
func (m *Module) Handle(ctx context.Context, _ string, text string) (string, error) {
	if m.route == nil || m.rag == nil {
		return replyUnavailable, nil
	}

	switch m.routeQuestion(ctx, text) {
	case routeNeither:
		return replyOffTopic, nil
	case routeWebSearch:
		// Web search is a stubbed no-document path; it terminates with
		// the no-answer sentinel instead of fabricating an answer.
		return replyNoAnswer, nil
	}

	docs, err := m.retrieveWithRetry(ctx, text)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return replyInsufficient, nil
	}

	return m.generate(ctx, text, docs)
}

type route string

const (
	routeVectorstore route = "vectorstore"
	routeWebSearch   route = "web_search"
	routeNeither     route = "neither"
)

func (m *Module) routeQuestion(ctx context.Context, question string) route {
	msg, err := m.route.Invoke(ctx, map[string]any{"question": question})
	if err != nil || msg == nil {
		// Retrieval is the safe route: a broken router should not make
		// the module refuse food questions.
		return routeVectorstore
	}

	r, ok := parseRouteLabel(msg.Content)
	if !ok {
		return routeVectorstore
	}
	return r
}

func parseRouteLabel(raw string) (route, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Trim(normalized, "`'\".")

	switch normalized {
	case string(routeVectorstore):
		return routeVectorstore, true
	case string(routeWebSearch):
		return routeWebSearch, true
	case string(routeNeither):
		return routeNeither, true
	default:
		return "", false
	}
}

// retrieveWithRetry asks the knowledge backend for documents, retrying a
// bounded number of times when it returns none.
func (m *Module) retrieveWithRetry(ctx context.Context, question string) ([]*schema.Document, error) {
	var docs []*schema.Document
	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		docs, err = m.docs.Retrieve(ctx, question)
		if err != nil {
			return nil, fmt.Errorf("retrieve documents: %w", err)
		}
		if len(docs) > 0 {
			return docs, nil
		}
	}
	return nil, nil
}

func (m *Module) generate(ctx context.Context, question string, docs []*schema.Document) (string, error) {
	var contextText strings.Builder
	for i, d := range docs {
		if i > 0 {
			contextText.WriteString("\n")
		}
		contextText.WriteString(d.Content)
	}

	msg, err := m.rag.Invoke(ctx, map[string]any{
		"context":  contextText.String(),
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return replyNoAnswer, nil
	}
	return strings.TrimSpace(msg.Content), nil
}

const routeSystemPrompt = `You decide whether a user question should be answered from a local food-knowledge vectorstore or a web search.

The vectorstore contains reference material about individual foods: nutritional profiles, health effects, storage, preparation, cooking and serving, adverse effects and drug interactions, food safety and dietary guidelines.

Use 'vectorstore' for any question about a specific food or how to prepare, cook, store or serve food, even general cooking instructions.
Use 'web_search' for questions the reference material cannot cover, such as recent food trends or breaking news.
If the question is unrelated to food, nutrition or diet, use 'neither'.

Return exactly one of: vectorstore | web_search | neither`

const ragSystemPrompt = `Use the provided context to answer the user's question.
If the context contains partial information, provide it in a complete sentence.
If the context contains no relevant information, respond politely that the information is not available.`

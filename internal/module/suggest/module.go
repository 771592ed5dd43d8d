// Package suggest implements the food_suggestion module: preference-based
// dish recommendation over the catalog.
package suggest

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/chatfood/chatfood/internal/model/catalog"
	"github.com/chatfood/chatfood/internal/model/conv"
	"github.com/chatfood/chatfood/internal/service/memory"
)

const replyUnavailable = "The language model is not configured, so dish suggestions are unavailable right now."

type invoker interface {
	Invoke(ctx context.Context, input map[string]any, opts ...compose.Option) (*schema.Message, error)
}

// Module runs the extract -> search -> summarize pipeline. Thread memory
// feeds prior turns back into the extraction prompt so clarifications
// refine the next search.
type Module struct {
	extract invoker
	items   catalog.Store
	mem     *memory.Store
}

// New builds the module. chatModel may be nil for degraded mode.
func New(ctx context.Context, chatModel model.ChatModel, items catalog.Store, mem *memory.Store) (*Module, error) {
	m := &Module{items: items, mem: mem}
	if chatModel == nil {
		return m, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(extractSystemPrompt),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("User request: \"{description}\""),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile extraction chain: %w", err)
	}

	m.extract = runnable
	return m, nil
}

// Name implements module.Handler.
func (m *Module) Name() conv.Module { return conv.ModuleSuggestion }

// Sticky implements module.Handler; suggestions are single-shot per
// binding even though the thread memory persists across bindings.
func (m *Module) Sticky() bool { return false }

// Handle runs one suggestion turn.
func (m *Module) Handle(ctx context.Context, thread, text string) (string, error) {
	if m.extract == nil {
		return replyUnavailable, nil
	}

	params := m.extractParams(ctx, thread, text)

	items, err := m.items.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list catalog: %w", err)
	}

	reply := Summarize(Search(items, params))

	m.mem.Append(thread,
		schema.UserMessage(text),
		schema.AssistantMessage(reply, nil),
	)
	return reply, nil
}

// extractParams asks the model for structured search parameters. Failures
// degrade to empty parameters; they never abort the turn.
func (m *Module) extractParams(ctx context.Context, thread, text string) SearchParams {
	msg, err := m.extract.Invoke(ctx, map[string]any{
		"history":     m.mem.History(thread),
		"description": text,
	})
	if err != nil {
		log.Printf("[suggest] extraction invoke failed, using empty params: %v", err)
		return SearchParams{}
	}
	if msg == nil {
		return SearchParams{}
	}
	return ParseSearchParams(msg.Content)
}

const extractSystemPrompt = `You are a helpful assistant for a restaurant search.
Your task:
1. Understand the user's food description, using the earlier conversation for context.
2. Extract:
   - include_keywords: important keywords and cuisine names (English only)
   - synonyms: synonyms for each keyword if possible
   - exclude_keywords: items the user explicitly says they don't want
   - guessed_food_names: possible actual food dish names that fit the description, even if the user didn't mention them directly
synonyms must always be a dictionary mapping each include_keyword to a list of synonyms, even if empty.

Return JSON with keys: include_keywords, synonyms, exclude_keywords, guessed_food_names.
Make sure guessed_food_names are in English.`

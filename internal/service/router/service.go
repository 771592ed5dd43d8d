package router

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/chatfood/chatfood/internal/analysis/intent"
	"github.com/chatfood/chatfood/internal/model/conv"
)

type invoker interface {
	Invoke(ctx context.Context, input map[string]any, opts ...compose.Option) (*schema.Message, error)
}

// Service classifies a fresh user turn into exactly one module identity.
// It consults no session state; the session service only calls it when no
// module is bound. An LLM classifier does the work when a chat model is
// available, with the keyword analyzer as deterministic fallback.
type Service struct {
	classifier invoker
	fallback   func(string) conv.Module
}

// NewService creates the router. chatModel may be nil, in which case every
// classification uses the heuristic fallback.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	svc := &Service{fallback: intent.Classify}

	if chatModel == nil {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(routerSystemPrompt),
		schema.UserMessage("User request: {query}\nAnswer:"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile router chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Classify returns one of food_info, food_suggestion, food_services or
// irrelevant. It never returns an error: classifier failures and
// unrecognized labels degrade to the fallback, and the fallback's worst
// case is irrelevant.
func (s *Service) Classify(ctx context.Context, text string) conv.Module {
	if s.classifier == nil {
		return s.fallback(text)
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{"query": text})
	if err != nil {
		log.Printf("[router] classifier invoke failed, use fallback: %v", err)
		return s.fallback(text)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallback(text)
	}

	module, ok := ParseModuleLabel(msg.Content)
	if !ok {
		log.Printf("[router] unrecognized label %q, defaulting to irrelevant", msg.Content)
		return conv.ModuleIrrelevant
	}
	return module
}

// ParseModuleLabel maps raw classifier output to a module using a strict
// closed-set match. Labels embedded inside longer tokens do not count; an
// unmatched output reports ok=false so the caller applies the irrelevant
// default.
func ParseModuleLabel(raw string) (conv.Module, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Trim(normalized, "`'\".")

	switch normalized {
	case "food_info":
		return conv.ModuleInfo, true
	case "food_suggestion":
		return conv.ModuleSuggestion, true
	case "food_services":
		return conv.ModuleServices, true
	case "irrelevant":
		return conv.ModuleIrrelevant, true
	default:
		return conv.ModuleNone, false
	}
}

const routerSystemPrompt = `You are a strict router for a food assistant.
Pick exactly ONE module name from this list and output ONLY that token:
- food_info        : factual info about foods, ingredients, nutrition, benefits/risks, definitions, recipes, preparation, and cooking methods.
- food_suggestion  : recommending or finding dishes or cuisines based on preferences or constraints, WITHOUT explicitly naming a specific food or restaurant.
- food_services    : any request that explicitly names a specific food or restaurant, including when asking for restaurants, menus, prices, deals, locations, or services like ordering, canceling, tracking orders, delivery, or payment.
- irrelevant       : the request is NOT about food, cooking, recipes, cuisines, restaurants, nutrition, or food services.

Rules:
- Output MUST be exactly one of: food_info | food_suggestion | food_services | irrelevant
- If the request is about how to prepare or cook a dish, always choose food_info.
- If the request explicitly names a food or restaurant (e.g., "pizza", "McDonald's") choose food_services, unless the intent is clearly to learn how to prepare it (then choose food_info).
- If the request describes food preferences or constraints without naming a specific food or restaurant choose food_suggestion.
- If unrelated to food choose irrelevant.`

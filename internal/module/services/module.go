// Package services implements the food_services module: a multi-turn
// tool-calling assistant for catalog search and order actions.
package services

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/chatfood/chatfood/internal/model/conv"
	"github.com/chatfood/chatfood/internal/service/memory"
)

const replyUnavailable = "The language model is not configured, so order services are unavailable right now."

// maxToolRounds caps the assistant/tool loop within a single turn.
const maxToolRounds = 8

// Module keeps the session bound to itself across turns: ordering
// interactions are inherently multi-step, so the session service never
// auto-releases it. Thread memory lets the model resolve terse follow-ups
// such as a bare order id.
type Module struct {
	chatModel model.ChatModel
	tools     *toolset
	mem       *memory.Store
}

// New binds the four action tools to a dedicated chat model instance.
// chatModel may be nil for degraded mode.
func New(chatModel model.ChatModel, cat CatalogSearcher, orders OrderActions, mem *memory.Store) (*Module, error) {
	m := &Module{
		tools: &toolset{catalog: cat, orders: orders},
		mem:   mem,
	}

	if chatModel == nil {
		return m, nil
	}

	if err := chatModel.BindTools(toolInfos()); err != nil {
		return nil, fmt.Errorf("bind service tools: %w", err)
	}

	m.chatModel = chatModel
	return m, nil
}

// Name implements module.Handler.
func (m *Module) Name() conv.Module { return conv.ModuleServices }

// Sticky implements module.Handler.
func (m *Module) Sticky() bool { return true }

// Handle runs one user turn through the assistant/tool loop. The reply is
// the latest assistant content once no tool call is pending; a turn that
// never yields content returns "" without error.
func (m *Module) Handle(ctx context.Context, thread, text string) (string, error) {
	if m.chatModel == nil {
		return replyUnavailable, nil
	}

	userMsg := schema.UserMessage(text)

	msgs := make([]*schema.Message, 0, 16)
	msgs = append(msgs, schema.SystemMessage(assistantPrompt))
	msgs = append(msgs, m.mem.History(thread)...)
	msgs = append(msgs, userMsg)

	produced := []*schema.Message{userMsg}
	last := ""

	for round := 0; round < maxToolRounds; round++ {
		resp, err := m.chatModel.Generate(ctx, msgs)
		if err != nil {
			return "", fmt.Errorf("assistant turn: %w", err)
		}

		msgs = append(msgs, resp)
		produced = append(produced, resp)
		if resp.Content != "" {
			last = resp.Content
		}

		if len(resp.ToolCalls) == 0 {
			break
		}

		// The assistant requests one action at a time; loop back so it
		// can summarize the tool result.
		tc := resp.ToolCalls[0]
		toolMsg := schema.ToolMessage(m.tools.execute(ctx, tc), tc.ID)
		msgs = append(msgs, toolMsg)
		produced = append(produced, toolMsg)
	}

	m.mem.Append(thread, produced...)
	return last, nil
}

const assistantPrompt = `You are a helpful food ordering assistant for a chat experience. You can NOT place orders yourself, but you help via these tools:

1) food_search(food_name, restaurant_name)
2) cancel_order(order_id, phone_number)
3) comment_order(order_id, person_name, comment)
4) check_order_status(order_id)

Rules for multi-turn chat:
- Use conversation memory (previous turns) to resolve short replies. If the user previously indicated an intent (e.g., "check status") and then provides just a number like "87", assume it's the missing order_id and proceed.
- If information is still ambiguous, ask a concise follow-up question. DO NOT repeat questions already answered (e.g., if the user said "any restaurant", don't ask again).
- Never guess required fields; collect them. But do interpret terse follow-ups in context.
- After each tool call, summarize the result briefly and clearly.
- Only say: "Sorry, I can only help with food orders and related services." when the message is truly unrelated. Do NOT say this for numeric-only messages - those are likely IDs.`

package chat

import (
	"context"

	"github.com/homereno/journey-backend/internal/entity"
)

// LLMConnector is the surface the chat flow needs from the language model
// service: plain completions for advisor replies and a tool-call round for
// checkpoint extraction.
type LLMConnector interface {
	Complete(ctx context.Context, systemPrompt string, history []entity.ChatMessage) (string, error)
	CallWithTool(ctx context.Context, systemPrompt string, tool entity.Tool, handler entity.ToolHandler) error
}

package llm

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/entity"
)

// MockConnector is a stand-in for local development without a model
// service. It answers with a canned reply and never calls tools, which
// exercises the keyword fallback end to end.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, systemPrompt string, history []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion", zap.Int("history_len", len(history)))

	return "Thanks for sharing! Tell me more about your renovation plans and I'll keep track of the details.", nil
}

func (m *MockConnector) CallWithTool(ctx context.Context, systemPrompt string, tool entity.Tool, handler entity.ToolHandler) error {
	ctxzap.Info(ctx, "[MOCK] tool call skipped", zap.String("tool", tool.Name))

	// Conservative by design: the mock never extracts anything.
	return nil
}

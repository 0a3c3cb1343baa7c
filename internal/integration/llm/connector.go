// Package llm talks to an OpenAI-compatible chat-completions service. The
// same connector serves two callers: plain completions for advisor replies
// and single-tool calls for Sentinel extraction, each with its own model.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/config"
	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/integration/common"
	pkghttp "github.com/homereno/journey-backend/pkg/http"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type chatCompletionRequest struct {
	Model      string               `json:"model"`
	Messages   []entity.ChatMessage `json:"messages"`
	Tools      []wireTool           `json:"tools,omitempty"`
	ToolChoice string               `json:"tool_choice,omitempty"`
}

type wireTool struct {
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type wireToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name string `json:"name"`
					// Arguments arrive as a JSON-encoded string.
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete generates a plain advisor reply. An empty reply is not an error;
// the caller decides what to say instead.
func (c *Connector) Complete(ctx context.Context, systemPrompt string, history []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion", zap.Int("history_len", len(history)))

	req := chatCompletionRequest{
		Model:    c.config.Model,
		Messages: buildMessages(systemPrompt, history),
	}

	resp, err := c.doChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// CallWithTool runs a tool-call round with a single available function and
// executes the handler for every call the model made. Handler results are
// terminal; no follow-up round is sent.
func (c *Connector) CallWithTool(ctx context.Context, systemPrompt string, tool entity.Tool, handler entity.ToolHandler) error {
	ctxzap.Info(ctx, "requesting tool call", zap.String("tool", tool.Name))

	req := chatCompletionRequest{
		Model:    c.config.SentinelModel,
		Messages: buildMessages(systemPrompt, nil),
		Tools: []wireTool{{
			Type: "function",
			Function: wireToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		}},
		ToolChoice: "auto",
	}

	resp, err := c.doChatCompletion(ctx, req)
	if err != nil {
		return fmt.Errorf("tool call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil
	}

	for _, tc := range resp.Choices[0].Message.ToolCalls {
		call := entity.ToolCall{
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		}
		result, err := handler(call)
		if err != nil {
			return fmt.Errorf("tool handler: %w", err)
		}
		if result.Error != "" {
			ctxzap.Info(ctx, "tool call rejected",
				zap.String("tool", tc.Function.Name),
				zap.String("reason", result.Error),
			)
		}
	}

	return nil
}

func (c *Connector) doChatCompletion(ctx context.Context, req chatCompletionRequest) (*chatCompletionResponse, error) {
	var resp chatCompletionResponse

	opts := append(
		c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)

	err := retry.Do(func() error {
		resp = chatCompletionResponse{}
		return c.connector.DoRequest(
			ctx, http.MethodPost, c.config.ChatCompletionsEndpoint, req, &resp,
			pkghttp.WithHeader("X-Request-ID", uuid.NewString()),
		)
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// isRetryable keeps retries to transient failures: network errors and
// server-side 5xx/429. Client errors fail immediately.
func isRetryable(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

func buildMessages(systemPrompt string, history []entity.ChatMessage) []entity.ChatMessage {
	messages := make([]entity.ChatMessage, 0, len(history)+1)
	messages = append(messages, entity.ChatMessage{Role: entity.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	return messages
}

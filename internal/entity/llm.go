package entity

import "encoding/json"

// ChatMessage is a single turn in a chat-completions request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Tool describes a function the model may call during extraction.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolCall is the model's request to invoke a tool.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolHandler executes a tool call and returns a structured result.
// Handlers report failures inside ToolResult and never return an error
// for bad arguments; only infrastructure failures surface as errors.
type ToolHandler func(call ToolCall) (ToolResult, error)

// ToolResult is the structured outcome of a tool execution.
type ToolResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// UpdateJourneyArgs are the arguments of the update_journey tool.
type UpdateJourneyArgs struct {
	JourneyID      *int64  `json:"journey_id"`
	CheckpointName *string `json:"checkpoint_name"`
	Value          *string `json:"value"`
}

package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/checkpoint"
	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository"
	"github.com/homereno/journey-backend/internal/usecase/milestone"
)

// updateJourneyParameters is the JSON schema of the single tool the Sentinel
// may call. One checkpoint per call, all arguments required.
var updateJourneyParameters = json.RawMessage(`{
	"type": "object",
	"properties": {
		"journey_id": {
			"type": "integer",
			"description": "The ID of the journey to update"
		},
		"checkpoint_name": {
			"type": "string",
			"description": "The specific checkpoint to update",
			"enum": ["room", "renovation_purpose", "budget_range", "timeline", "style_preference", "priority_feature"]
		},
		"value": {
			"type": "string",
			"description": "The value extracted from the user's message for the specified checkpoint"
		}
	},
	"required": ["journey_id", "checkpoint_name", "value"],
	"additionalProperties": false
}`)

func updateJourneyTool() entity.Tool {
	return entity.Tool{
		Name:        "update_journey",
		Description: "Update the user's renovation journey with extracted information. Only one field can be updated at a time.",
		Parameters:  updateJourneyParameters,
	}
}

// Sentinel watches recent conversation turns and extracts checkpoint answers
// through a constrained tool call. It is deliberately conservative: it only
// fills empty checkpoints, normalizes every value before persisting, and
// treats every model failure as "no update".
type Sentinel struct {
	llm       LLMConnector
	journeys  repository.JourneyRepository
	evaluator *milestone.Evaluator
}

func NewSentinel(llm LLMConnector, journeys repository.JourneyRepository, evaluator *milestone.Evaluator) *Sentinel {
	return &Sentinel{llm: llm, journeys: journeys, evaluator: evaluator}
}

// Analyze runs one extraction round over the recent messages and returns the
// re-fetched journey plus whether anything changed. Extraction failures never
// propagate; the original journey is returned instead.
func (s *Sentinel) Analyze(ctx context.Context, journey *entity.Journey, recent []entity.Message) (*entity.Journey, bool) {
	logger := ctxzap.Extract(ctx)
	logger.Info("sentinel analyzing journey",
		zap.Int64("journey_id", journey.ID),
		zap.Int("current_milestone", journey.CurrentMilestone),
		zap.Int("recent_messages", len(recent)),
	)

	systemPrompt := s.buildSystemPrompt(journey, recent)

	err := s.llm.CallWithTool(ctx, systemPrompt, updateJourneyTool(), s.toolHandler(ctx, journey))
	if err != nil {
		// Non-fatal: the turn continues without an extraction.
		logger.Error("sentinel tool call failed", zap.Int64("journey_id", journey.ID), zap.Error(err))
	}

	updated, err := s.journeys.GetJourneyByID(ctx, journey.ID)
	if err != nil {
		logger.Error("sentinel refetch failed", zap.Int64("journey_id", journey.ID), zap.Error(err))
		return journey, false
	}

	if updated.Changed(journey) {
		logger.Info("sentinel updated journey", zap.Int64("journey_id", journey.ID))
		return updated, true
	}
	return updated, false
}

// toolHandler validates and executes a single update_journey call. Argument
// problems are reported back to the model as structured errors, never as Go
// errors, so a confused model cannot fail the turn.
func (s *Sentinel) toolHandler(ctx context.Context, journey *entity.Journey) entity.ToolHandler {
	return func(call entity.ToolCall) (entity.ToolResult, error) {
		logger := ctxzap.Extract(ctx)

		if call.Name != "update_journey" {
			return entity.ToolResult{Error: fmt.Sprintf("unknown function: %s", call.Name)}, nil
		}

		var args entity.UpdateJourneyArgs
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return entity.ToolResult{Error: fmt.Sprintf("invalid arguments: %v", err)}, nil
		}
		if args.JourneyID == nil || *args.JourneyID == 0 {
			return entity.ToolResult{Error: "missing journey_id"}, nil
		}
		if args.CheckpointName == nil || args.Value == nil || *args.Value == "" {
			return entity.ToolResult{Error: "both checkpoint_name and value must be provided"}, nil
		}

		cp, err := entity.ParseCheckpoint(*args.CheckpointName)
		if err != nil {
			return entity.ToolResult{
				Error:  fmt.Sprintf("invalid checkpoint_name: %s", *args.CheckpointName),
				Detail: "valid checkpoints: " + joinCheckpoints(),
			}, nil
		}

		// The model is told the journey id but may still get it wrong.
		if *args.JourneyID != journey.ID {
			return entity.ToolResult{Error: fmt.Sprintf("journey %d not found", *args.JourneyID)}, nil
		}

		// Re-fetch so earlier calls in the same round are visible.
		fresh, err := s.journeys.GetJourneyByID(ctx, journey.ID)
		if err != nil {
			fresh = journey
		}

		if fresh.CheckpointValue(cp) != nil {
			return entity.ToolResult{
				Success: true,
				Detail:  fmt.Sprintf("%s is already set and was not changed", cp),
			}, nil
		}

		// Only the next unfilled checkpoint of the current milestone may be
		// written; a confused model must not fill future-milestone fields.
		target, hasTarget := checkpoint.NextToExtract(fresh)
		if !hasTarget || cp != target {
			logger.Info("sentinel rejected non-target checkpoint",
				zap.Int64("journey_id", journey.ID),
				zap.String("checkpoint", string(cp)),
				zap.String("target", string(target)),
			)
			detail := "all checkpoints for the current milestone are already filled"
			if hasTarget {
				detail = fmt.Sprintf("the current checkpoint to collect is %s", target)
			}
			return entity.ToolResult{
				Error:  fmt.Sprintf("checkpoint %s is not the current target", cp),
				Detail: detail,
			}, nil
		}

		value := checkpoint.Normalize(cp, *args.Value)

		written, err := s.journeys.SetCheckpointIfEmpty(ctx, journey.ID, cp, value)
		if err != nil {
			logger.Error("sentinel checkpoint write failed",
				zap.Int64("journey_id", journey.ID),
				zap.String("checkpoint", string(cp)),
				zap.Error(err),
			)
			return entity.ToolResult{Error: "could not update journey"}, nil
		}
		if !written {
			logger.Info("sentinel skipped already-set checkpoint",
				zap.Int64("journey_id", journey.ID),
				zap.String("checkpoint", string(cp)),
			)
			return entity.ToolResult{
				Success: true,
				Detail:  fmt.Sprintf("%s is already set and was not changed", cp),
			}, nil
		}

		logger.Info("sentinel wrote checkpoint",
			zap.Int64("journey_id", journey.ID),
			zap.String("checkpoint", string(cp)),
			zap.String("value", value),
		)

		if fresh, err := s.journeys.GetJourneyByID(ctx, journey.ID); err == nil {
			if _, err := s.evaluator.EvaluateAll(ctx, fresh); err != nil {
				logger.Error("sentinel milestone evaluation failed",
					zap.Int64("journey_id", journey.ID), zap.Error(err))
			}
		}

		return entity.ToolResult{
			Success: true,
			Detail:  fmt.Sprintf("updated %s to '%s'", cp, value),
		}, nil
	}
}

func (s *Sentinel) buildSystemPrompt(journey *entity.Journey, recent []entity.Message) string {
	nextCheckpoint, hasNext := checkpoint.NextToExtract(journey)

	completed := completedCheckpointsText(journey)

	var history strings.Builder
	for _, msg := range recent {
		role := "Assistant"
		if msg.Speaker == entity.SpeakerUser {
			role = "User"
		}
		history.WriteString("\n" + role + ": " + msg.Content)
	}

	checkpointLine := "All checkpoints for current milestone completed"
	questionLine := "No pending questions for current milestone"
	if hasNext {
		checkpointLine = string(nextCheckpoint)
		questionLine = checkpoint.Question(nextCheckpoint)
	}

	prompt := fmt.Sprintf(`You are a Journey Sentinel that analyzes conversations to extract information about a user's renovation project.

CURRENT JOURNEY STATE:
- User ID: %d
- Journey ID: %d
- Current Milestone: %d
- Completed checkpoints: %s

NEXT INFORMATION NEEDED:
- Checkpoint: %s
- Question: %s

Your task is to analyze the conversation and determine if the user has provided information about their renovation journey. If you find relevant information, use the update_journey function to save it.
Here is the conversation history to analyze:
%s

GUIDELINES:
1. Focus ONLY on extracting information for the CURRENT checkpoint
2. Be conservative - only extract information if you are confident it directly answers the needed question
3. Do not make assumptions or extract unrelated information
4. If no relevant information is found, do not call any functions

FUNCTION USAGE:
- Call update_journey with three parameters:
  - journey_id: %d (always use this exact ID)
  - checkpoint_name: The name of the checkpoint (e.g., "room", "budget_range")
  - value: The value you extracted from the conversation
- Example: update_journey(journey_id=%d, checkpoint_name="room", value="kitchen")
- Only call this function when you've identified a clear answer to the current checkpoint question
`,
		journey.UserID, journey.ID, journey.CurrentMilestone, completed,
		checkpointLine, questionLine, history.String(), journey.ID, journey.ID,
	)

	if hasNext {
		prompt += "\n\n" + checkpoint.Guidance(nextCheckpoint)
	}
	return prompt
}

func completedCheckpointsText(journey *entity.Journey) string {
	parts := make([]string, 0, len(entity.AllCheckpoints))
	for _, cp := range entity.AllCheckpoints {
		if v := journey.CheckpointValue(cp); v != nil {
			parts = append(parts, fmt.Sprintf("%s: %s", cp, *v))
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, ", ")
}

func joinCheckpoints() string {
	parts := make([]string, 0, len(entity.AllCheckpoints))
	for _, cp := range entity.AllCheckpoints {
		parts = append(parts, string(cp))
	}
	return strings.Join(parts, ", ")
}

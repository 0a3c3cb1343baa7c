package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository/repositorytest"
	"github.com/homereno/journey-backend/internal/usecase/milestone"
)

// stubLLM scripts connector behavior for tests: CallWithTool feeds the
// prepared tool calls to the handler, Complete returns the canned reply.
type stubLLM struct {
	completeText string
	completeErr  error

	toolCalls []entity.ToolCall
	toolErr   error

	completePrompts []string
	toolPrompts     []string
	toolResults     []entity.ToolResult
}

func (s *stubLLM) Complete(_ context.Context, systemPrompt string, _ []entity.ChatMessage) (string, error) {
	s.completePrompts = append(s.completePrompts, systemPrompt)
	return s.completeText, s.completeErr
}

func (s *stubLLM) CallWithTool(_ context.Context, systemPrompt string, _ entity.Tool, handler entity.ToolHandler) error {
	s.toolPrompts = append(s.toolPrompts, systemPrompt)
	if s.toolErr != nil {
		return s.toolErr
	}
	for _, call := range s.toolCalls {
		result, err := handler(call)
		if err != nil {
			return err
		}
		s.toolResults = append(s.toolResults, result)
	}
	return nil
}

func updateCall(journeyID int64, checkpointName, value string) entity.ToolCall {
	args := fmt.Sprintf(`{"journey_id": %d, "checkpoint_name": %q, "value": %q}`, journeyID, checkpointName, value)
	return entity.ToolCall{Name: "update_journey", Arguments: json.RawMessage(args)}
}

func newTestSentinel(journeys *repositorytest.FakeJourneys, llm *stubLLM) *Sentinel {
	return NewSentinel(llm, journeys, milestone.NewEvaluator(journeys))
}

func TestSentinelWritesNormalizedCheckpoint(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 2})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(seeded.ID, "budget_range", "we want something luxury")}}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.True(t, changed)
	require.NotNil(t, updated.BudgetRange)
	assert.Equal(t, "high", *updated.BudgetRange)
	require.Len(t, llm.toolResults, 1)
	assert.True(t, llm.toolResults[0].Success)
}

func TestSentinelDoesNotOverwriteCheckpoint(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1, Room: strptr("kitchen")})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(seeded.ID, "room", "bathroom")}}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.False(t, changed)
	require.NotNil(t, updated.Room)
	assert.Equal(t, "kitchen", *updated.Room)

	// The model is told the value stands, not given an error.
	require.Len(t, llm.toolResults, 1)
	assert.True(t, llm.toolResults[0].Success)
	assert.Contains(t, llm.toolResults[0].Detail, "already set")
}

func TestSentinelRejectsWrongJourneyID(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(999, "room", "kitchen")}}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.False(t, changed)
	assert.Nil(t, updated.Room)
	require.Len(t, llm.toolResults, 1)
	assert.False(t, llm.toolResults[0].Success)
	assert.Contains(t, llm.toolResults[0].Error, "journey 999 not found")
}

func TestSentinelRejectsUnknownCheckpoint(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(seeded.ID, "wall_color", "blue")}}

	s := newTestSentinel(journeys, llm)
	_, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.False(t, changed)
	require.Len(t, llm.toolResults, 1)
	assert.Contains(t, llm.toolResults[0].Error, "invalid checkpoint_name")
	assert.Contains(t, llm.toolResults[0].Detail, "room")
}

func TestSentinelRejectsNonTargetCheckpoint(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(seeded.ID, "style_preference", "rustic cabin feel")}}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.False(t, changed)
	assert.Nil(t, updated.StylePreference)
	require.Len(t, llm.toolResults, 1)
	assert.False(t, llm.toolResults[0].Success)
	assert.Contains(t, llm.toolResults[0].Error, "not the current target")
	assert.Contains(t, llm.toolResults[0].Detail, "room")
}

func TestSentinelRejectsOutOfOrderCheckpoint(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(seeded.ID, "renovation_purpose", "repair")}}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	// Purpose belongs to milestone 1 but room is collected first.
	assert.False(t, changed)
	assert.Nil(t, updated.RenovationPurpose)
	require.Len(t, llm.toolResults, 1)
	assert.Contains(t, llm.toolResults[0].Error, "not the current target")
	assert.Contains(t, llm.toolResults[0].Detail, "room")
}

func TestSentinelRejectsWhenMilestoneFilled(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{
		UserID:            1,
		CurrentMilestone:  1,
		Room:              strptr("kitchen"),
		RenovationPurpose: strptr("repair"),
	})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(seeded.ID, "budget_range", "low")}}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.False(t, changed)
	assert.Nil(t, updated.BudgetRange)
	require.Len(t, llm.toolResults, 1)
	assert.Contains(t, llm.toolResults[0].Error, "not the current target")
	assert.Contains(t, llm.toolResults[0].Detail, "already filled")
}

func TestSentinelRejectsMissingArguments(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1})
	llm := &stubLLM{toolCalls: []entity.ToolCall{{
		Name:      "update_journey",
		Arguments: json.RawMessage(fmt.Sprintf(`{"journey_id": %d}`, seeded.ID)),
	}}}

	s := newTestSentinel(journeys, llm)
	_, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.False(t, changed)
	require.Len(t, llm.toolResults, 1)
	assert.Contains(t, llm.toolResults[0].Error, "checkpoint_name and value")
}

func TestSentinelSurvivesConnectorFailure(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1})
	llm := &stubLLM{toolErr: fmt.Errorf("service unavailable")}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.False(t, changed)
	assert.Equal(t, seeded.ID, updated.ID)
	assert.Nil(t, updated.Room)
}

func TestSentinelCompletesMilestoneAndAdvances(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{
		UserID:            1,
		CurrentMilestone:  1,
		RenovationPurpose: strptr("functional"),
	})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(seeded.ID, "room", "the kitchen please")}}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.True(t, changed)
	require.NotNil(t, updated.Room)
	assert.Equal(t, "kitchen", *updated.Room)
	assert.True(t, updated.Milestone1Completed)
	assert.NotNil(t, updated.Milestone1CompletedAt)
	assert.Equal(t, 2, updated.CurrentMilestone)
}

func TestSentinelFinalMilestoneCompletesJourney(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{
		UserID:              1,
		CurrentMilestone:    3,
		Room:                strptr("kitchen"),
		RenovationPurpose:   strptr("functional"),
		BudgetRange:         strptr("medium"),
		Timeline:            strptr("months"),
		StylePreference:     strptr("modern"),
		Milestone1Completed: true,
		Milestone2Completed: true,
	})
	llm := &stubLLM{toolCalls: []entity.ToolCall{updateCall(seeded.ID, "priority_feature", "more storage would be great")}}

	s := newTestSentinel(journeys, llm)
	updated, changed := s.Analyze(context.Background(), &seeded, nil)

	assert.True(t, changed)
	assert.True(t, updated.Milestone3Completed)
	assert.Equal(t, entity.JourneyStatusCompleted, updated.Status)
	require.NotNil(t, updated.PriorityFeature)
	assert.Equal(t, "storage", *updated.PriorityFeature)
}

func TestSentinelPromptDescribesState(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	seeded := journeys.Seed(entity.Journey{UserID: 7, CurrentMilestone: 1, Room: strptr("kitchen")})
	llm := &stubLLM{}

	recent := []entity.Message{
		{Speaker: entity.SpeakerUser, Content: "I want to fix things up"},
		{Speaker: entity.SpeakerAssistant, Content: "Tell me more"},
	}

	s := newTestSentinel(journeys, llm)
	s.Analyze(context.Background(), &seeded, recent)

	require.Len(t, llm.toolPrompts, 1)
	prompt := llm.toolPrompts[0]
	assert.Contains(t, prompt, fmt.Sprintf("Journey ID: %d", seeded.ID))
	assert.Contains(t, prompt, "User ID: 7")
	assert.Contains(t, prompt, "Completed checkpoints: room: kitchen")
	assert.Contains(t, prompt, "- Checkpoint: renovation_purpose")
	assert.Contains(t, prompt, "User: I want to fix things up")
	assert.Contains(t, prompt, "Assistant: Tell me more")
}

package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository/repositorytest"
	"github.com/homereno/journey-backend/internal/usecase/milestone"
)

type chatFixture struct {
	users    *repositorytest.FakeUsers
	journeys *repositorytest.FakeJourneys
	messages *repositorytest.FakeMessages
	llm      *stubLLM
	usecase  *Usecase
}

func newChatFixture(llm *stubLLM) *chatFixture {
	users := repositorytest.NewFakeUsers()
	journeys := repositorytest.NewFakeJourneys()
	messages := repositorytest.NewFakeMessages()
	evaluator := milestone.NewEvaluator(journeys)
	sentinel := NewSentinel(llm, journeys, evaluator)

	return &chatFixture{
		users:    users,
		journeys: journeys,
		messages: messages,
		llm:      llm,
		usecase:  NewUsecase(users, journeys, messages, llm, sentinel, evaluator),
	}
}

func (f *chatFixture) seedUser(t *testing.T) *entity.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), 0, strptr("Ada"), nil)
	require.NoError(t, err)
	return u
}

func TestProcessMessageExtractsCheckpoint(t *testing.T) {
	llm := &stubLLM{completeText: "A kitchen renovation, great choice!"}
	f := newChatFixture(llm)
	user := f.seedUser(t)
	journey := f.journeys.Seed(entity.Journey{UserID: user.ID, CurrentMilestone: 1})
	llm.toolCalls = []entity.ToolCall{updateCall(journey.ID, "room", "kitchen")}

	resp, err := f.usecase.ProcessMessage(context.Background(), user.ID, journey.ID, "I want to redo my kitchen")
	require.NoError(t, err)

	assert.Equal(t, "A kitchen renovation, great choice!", resp.Message)
	assert.Equal(t, entity.ExtractionUpdated, resp.Extraction)
	assert.Equal(t, 1, resp.JourneyState.Milestone)
	assert.Equal(t, []entity.Checkpoint{entity.CheckpointRoom}, resp.JourneyState.CompletedCheckpoints)
	assert.Equal(t, entity.JourneyStatusInProgress, resp.JourneyState.Status)

	stored := f.messages.All()
	require.Len(t, stored, 2)
	assert.Equal(t, entity.SpeakerUser, stored[0].Speaker)
	assert.Equal(t, "I want to redo my kitchen", stored[0].Content)
	assert.Equal(t, entity.SpeakerAssistant, stored[1].Speaker)
	assert.Equal(t, resp.Message, stored[1].Content)
}

func TestProcessMessageNoExtraction(t *testing.T) {
	llm := &stubLLM{completeText: "Tell me more about your plans."}
	f := newChatFixture(llm)
	user := f.seedUser(t)
	journey := f.journeys.Seed(entity.Journey{UserID: user.ID, CurrentMilestone: 1})

	resp, err := f.usecase.ProcessMessage(context.Background(), user.ID, journey.ID, "hello there")
	require.NoError(t, err)

	assert.Equal(t, entity.ExtractionUnchanged, resp.Extraction)
	assert.Empty(t, resp.JourneyState.CompletedCheckpoints)
}

func TestProcessMessageSkipsSentinelWhenCompleted(t *testing.T) {
	llm := &stubLLM{completeText: "Happy to answer questions about your plan."}
	f := newChatFixture(llm)
	user := f.seedUser(t)
	journey := f.journeys.Seed(entity.Journey{
		UserID:           user.ID,
		CurrentMilestone: 3,
		Status:           entity.JourneyStatusCompleted,
		Room:             strptr("kitchen"),
	})
	// Even a scripted extraction must not run on a completed journey.
	llm.toolCalls = []entity.ToolCall{updateCall(journey.ID, "renovation_purpose", "repair")}

	resp, err := f.usecase.ProcessMessage(context.Background(), user.ID, journey.ID, "thanks for the help")
	require.NoError(t, err)

	assert.Equal(t, entity.ExtractionSkipped, resp.Extraction)
	assert.Empty(t, llm.toolPrompts)

	fresh, err := f.journeys.GetJourneyByID(context.Background(), journey.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.RenovationPurpose)

	// The advisor keeps chatting about the completed plan.
	require.Len(t, llm.completePrompts, 1)
	assert.Contains(t, llm.completePrompts[0], "completed their renovation journey")
}

func TestProcessMessageEmptyReplyGetsApology(t *testing.T) {
	llm := &stubLLM{completeText: ""}
	f := newChatFixture(llm)
	user := f.seedUser(t)
	journey := f.journeys.Seed(entity.Journey{UserID: user.ID, CurrentMilestone: 1})

	resp, err := f.usecase.ProcessMessage(context.Background(), user.ID, journey.ID, "hi")
	require.NoError(t, err)

	assert.Equal(t, noResponseText, resp.Message)
}

func TestProcessMessageFallsBackOnModelFailure(t *testing.T) {
	llm := &stubLLM{completeErr: fmt.Errorf("connection refused")}
	f := newChatFixture(llm)
	user := f.seedUser(t)
	journey := f.journeys.Seed(entity.Journey{
		UserID:              user.ID,
		CurrentMilestone:    2,
		Room:                strptr("kitchen"),
		RenovationPurpose:   strptr("functional"),
		Milestone1Completed: true,
	})

	resp, err := f.usecase.ProcessMessage(context.Background(), user.ID, journey.ID, "something cheap, and quick please")
	require.NoError(t, err)

	assert.Equal(t, entity.ExtractionFallback, resp.Extraction)

	fresh, err := f.journeys.GetJourneyByID(context.Background(), journey.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.BudgetRange)
	require.NotNil(t, fresh.Timeline)
	assert.Equal(t, "low", *fresh.BudgetRange)
	assert.Equal(t, "weeks", *fresh.Timeline)
	assert.True(t, fresh.Milestone2Completed)

	assert.Contains(t, resp.Message, "low budget with a timeline of weeks")

	// The templated reply is persisted like a normal assistant message.
	stored := f.messages.All()
	require.Len(t, stored, 2)
	assert.Equal(t, entity.SpeakerAssistant, stored[1].Speaker)
	assert.Equal(t, resp.Message, stored[1].Content)
}

func TestProcessMessageFallbackWithoutMatches(t *testing.T) {
	llm := &stubLLM{completeErr: fmt.Errorf("timeout")}
	f := newChatFixture(llm)
	user := f.seedUser(t)
	journey := f.journeys.Seed(entity.Journey{UserID: user.ID, CurrentMilestone: 1})

	resp, err := f.usecase.ProcessMessage(context.Background(), user.ID, journey.ID, "hmm let me think")
	require.NoError(t, err)

	assert.Equal(t, entity.ExtractionFallback, resp.Extraction)
	assert.Contains(t, resp.Message, "Which room are you planning to renovate?")
}

func TestProcessMessageCompletesFinalMilestone(t *testing.T) {
	llm := &stubLLM{completeText: "Congratulations, your plan is complete!"}
	f := newChatFixture(llm)
	user := f.seedUser(t)
	journey := f.journeys.Seed(entity.Journey{
		UserID:              user.ID,
		CurrentMilestone:    3,
		Room:                strptr("bedroom"),
		RenovationPurpose:   strptr("aesthetic"),
		BudgetRange:         strptr("medium"),
		Timeline:            strptr("months"),
		StylePreference:     strptr("minimalist"),
		Milestone1Completed: true,
		Milestone2Completed: true,
	})
	llm.toolCalls = []entity.ToolCall{updateCall(journey.ID, "priority_feature", "lots of natural light")}

	resp, err := f.usecase.ProcessMessage(context.Background(), user.ID, journey.ID, "natural light matters most to me")
	require.NoError(t, err)

	assert.Equal(t, entity.ExtractionUpdated, resp.Extraction)
	assert.Equal(t, entity.JourneyStatusCompleted, resp.JourneyState.Status)
	assert.Equal(t, 3, resp.JourneyState.Milestone)

	fresh, err := f.journeys.GetJourneyByID(context.Background(), journey.ID)
	require.NoError(t, err)
	assert.True(t, fresh.Milestone3Completed)
	require.NotNil(t, fresh.PriorityFeature)
	assert.Equal(t, "lighting", *fresh.PriorityFeature)
}

func TestProcessMessageUnknownUser(t *testing.T) {
	f := newChatFixture(&stubLLM{})

	_, err := f.usecase.ProcessMessage(context.Background(), 42, 1, "hello")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestProcessMessageUnknownJourney(t *testing.T) {
	f := newChatFixture(&stubLLM{})
	user := f.seedUser(t)

	_, err := f.usecase.ProcessMessage(context.Background(), user.ID, 99, "hello")
	assert.ErrorIs(t, err, entity.ErrJourneyNotFound)
}

func TestListJourneyMessagesValidatesJourney(t *testing.T) {
	f := newChatFixture(&stubLLM{})

	_, err := f.usecase.ListJourneyMessages(context.Background(), 5, 10)
	assert.ErrorIs(t, err, entity.ErrJourneyNotFound)
}

func TestRecentMessagesChronological(t *testing.T) {
	f := newChatFixture(&stubLLM{})
	journey := f.journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1})

	for i := 1; i <= 4; i++ {
		_, err := f.messages.CreateMessage(context.Background(), entity.MessageCreate{
			UserID:    1,
			JourneyID: journey.ID,
			Speaker:   entity.SpeakerUser,
			Content:   fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	msgs, err := f.usecase.recentMessages(context.Background(), journey.ID, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "message 2", msgs[0].Content)
	assert.Equal(t, "message 4", msgs[2].Content)
}

func TestFallbackResponseCompletedJourney(t *testing.T) {
	j := &entity.Journey{
		Status:          entity.JourneyStatusCompleted,
		Room:            strptr("kitchen"),
		RenovationPurpose: strptr("functional"),
		BudgetRange:     strptr("high"),
		Timeline:        strptr("weeks"),
		StylePreference: strptr("modern"),
		PriorityFeature: strptr("storage"),
	}

	text := fallbackResponse(j)
	assert.Contains(t, text, "Your renovation plan is complete!")
	assert.Contains(t, text, "A modern kitchen renovation focusing on functional with storage as a key feature.")
	assert.Contains(t, text, "budget is in the high range with a timeline of weeks")
}

func TestFallbackExtractionIgnoresOtherMilestones(t *testing.T) {
	f := newChatFixture(&stubLLM{})
	journey := f.journeys.Seed(entity.Journey{UserID: 1, CurrentMilestone: 1})

	// Budget keywords must not be extracted while milestone 1 is active.
	updated, wrote := f.usecase.extractWithKeywords(context.Background(), &journey, "my budget is cheap")
	assert.False(t, wrote)
	assert.Nil(t, updated.BudgetRange)
}

package chat

import (
	"context"
	"fmt"
	"strconv"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/checkpoint"
	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository"
	"github.com/homereno/journey-backend/internal/usecase/milestone"
)

const (
	sentinelHistoryLimit = 5
	responseHistoryLimit = 10

	noResponseText = "I'm sorry, I couldn't generate a response."
)

// Usecase orchestrates one conversation turn: persist the user message, run
// the Sentinel extraction, pick the advisor prompt for the refreshed journey
// state, generate the reply and persist it. When reply generation fails it
// degrades to keyword extraction with a templated response instead of
// returning an error.
type Usecase struct {
	users     repository.UserRepository
	journeys  repository.JourneyRepository
	messages  repository.MessageRepository
	llm       LLMConnector
	sentinel  *Sentinel
	evaluator *milestone.Evaluator
}

func NewUsecase(
	users repository.UserRepository,
	journeys repository.JourneyRepository,
	messages repository.MessageRepository,
	llm LLMConnector,
	sentinel *Sentinel,
	evaluator *milestone.Evaluator,
) *Usecase {
	return &Usecase{
		users:     users,
		journeys:  journeys,
		messages:  messages,
		llm:       llm,
		sentinel:  sentinel,
		evaluator: evaluator,
	}
}

func (u *Usecase) ProcessMessage(ctx context.Context, userID, journeyID int64, text string) (*entity.ChatResponse, error) {
	logger := ctxzap.Extract(ctx)

	if _, err := u.users.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("process message: %w", err)
	}
	journey, err := u.journeys.GetJourneyByID(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("process message: %w", err)
	}

	// The user message records the milestone as it was before extraction.
	_, err = u.messages.CreateMessage(ctx, entity.MessageCreate{
		UserID:           userID,
		JourneyID:        journeyID,
		Speaker:          entity.SpeakerUser,
		Content:          text,
		CurrentMilestone: journey.CurrentMilestone,
	})
	if err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	outcome := entity.ExtractionSkipped
	if journey.Status != entity.JourneyStatusCompleted {
		recent, err := u.recentMessages(ctx, journeyID, sentinelHistoryLimit)
		if err != nil {
			return nil, fmt.Errorf("load recent messages: %w", err)
		}
		var changed bool
		journey, changed = u.sentinel.Analyze(ctx, journey, recent)
		if changed {
			outcome = entity.ExtractionUpdated
		} else {
			outcome = entity.ExtractionUnchanged
		}
	}

	completed := completedForCurrentMilestone(journey)
	contextInfo := buildContext(journey, completed)
	variant := selectPromptVariant(journey, completed)
	systemPrompt := renderPrompt(variant, journey, contextInfo, completed)

	history, err := u.recentMessages(ctx, journeyID, responseHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load conversation history: %w", err)
	}

	chatHistory := make([]entity.ChatMessage, 0, len(history)+1)
	for _, msg := range history {
		role := entity.RoleAssistant
		if msg.Speaker == entity.SpeakerUser {
			role = entity.RoleUser
		}
		chatHistory = append(chatHistory, entity.ChatMessage{Role: role, Content: msg.Content})
	}
	chatHistory = append(chatHistory, entity.ChatMessage{Role: entity.RoleUser, Content: text})

	responseText, err := u.llm.Complete(ctx, systemPrompt, chatHistory)
	if err != nil {
		logger.Error("response generation failed, using keyword fallback",
			zap.Int64("journey_id", journeyID), zap.Error(err))
		return u.fallbackTurn(ctx, userID, journey, text)
	}
	if responseText == "" {
		responseText = noResponseText
	}

	_, err = u.messages.CreateMessage(ctx, entity.MessageCreate{
		UserID:           userID,
		JourneyID:        journeyID,
		Speaker:          entity.SpeakerAssistant,
		Content:          responseText,
		CurrentMilestone: journey.CurrentMilestone,
	})
	if err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	return &entity.ChatResponse{
		Message: responseText,
		JourneyState: entity.JourneyState{
			Milestone:            journey.CurrentMilestone,
			CompletedCheckpoints: completed,
			Status:               journey.Status,
		},
		Extraction: outcome,
	}, nil
}

// fallbackTurn handles a turn without the model: keyword extraction over the
// raw message, a templated reply, and normal persistence of the reply.
func (u *Usecase) fallbackTurn(ctx context.Context, userID int64, journey *entity.Journey, text string) (*entity.ChatResponse, error) {
	journey, _ = u.extractWithKeywords(ctx, journey, text)

	responseText := fallbackResponse(journey)

	_, err := u.messages.CreateMessage(ctx, entity.MessageCreate{
		UserID:           userID,
		JourneyID:        journey.ID,
		Speaker:          entity.SpeakerAssistant,
		Content:          responseText,
		CurrentMilestone: journey.CurrentMilestone,
	})
	if err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	return &entity.ChatResponse{
		Message: responseText,
		JourneyState: entity.JourneyState{
			Milestone:            journey.CurrentMilestone,
			CompletedCheckpoints: completedForCurrentMilestone(journey),
			Status:               journey.Status,
		},
		Extraction: entity.ExtractionFallback,
	}, nil
}

// ListJourneyMessages returns a journey's newest messages, most recent first.
func (u *Usecase) ListJourneyMessages(ctx context.Context, journeyID int64, limit int) ([]entity.Message, error) {
	if _, err := u.journeys.GetJourneyByID(ctx, journeyID); err != nil {
		return nil, err
	}
	return u.messages.GetJourneyMessages(ctx, journeyID, limit)
}

// ListAllMessages pages over every stored message, most recent first.
func (u *Usecase) ListAllMessages(ctx context.Context, limit, offset int) ([]entity.Message, error) {
	return u.messages.ListMessages(ctx, limit, offset)
}

// recentMessages returns the journey's newest messages in chronological order.
func (u *Usecase) recentMessages(ctx context.Context, journeyID int64, limit int) ([]entity.Message, error) {
	msgs, err := u.messages.GetJourneyMessages(ctx, journeyID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// completedForCurrentMilestone lists which of the current milestone's two
// checkpoints are filled, in collection order.
func completedForCurrentMilestone(journey *entity.Journey) []entity.Checkpoint {
	completed := make([]entity.Checkpoint, 0, 2)
	cps, ok := checkpoint.ForMilestone(journey.CurrentMilestone)
	if !ok {
		return completed
	}
	for _, cp := range cps {
		if journey.CheckpointValue(cp) != nil {
			completed = append(completed, cp)
		}
	}
	return completed
}

// buildContext exposes only the checkpoint values belonging to milestones the
// journey has reached. Later-milestone answers stay hidden from the advisor
// until the journey unlocks them.
func buildContext(journey *entity.Journey, completed []entity.Checkpoint) map[string]string {
	info := map[string]string{
		"milestone":             strconv.Itoa(journey.CurrentMilestone),
		"completed_checkpoints": formatCheckpoints(completed),
	}

	for _, cp := range entity.AllCheckpoints {
		m, ok := checkpoint.Milestone(cp)
		if !ok || m > journey.CurrentMilestone {
			continue
		}
		if v := journey.CheckpointValue(cp); v != nil {
			info[string(cp)] = *v
		}
	}
	return info
}

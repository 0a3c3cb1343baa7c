package chat

import (
	"context"

	"github.com/homereno/journey-backend/internal/entity"
)

type ChatUsecase interface {
	ProcessMessage(ctx context.Context, userID, journeyID int64, text string) (*entity.ChatResponse, error)
	ListJourneyMessages(ctx context.Context, journeyID int64, limit int) ([]entity.Message, error)
	ListAllMessages(ctx context.Context, limit, offset int) ([]entity.Message, error)
}

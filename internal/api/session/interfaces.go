package session

import (
	"context"

	"github.com/homereno/journey-backend/internal/entity"
)

type SessionUsecase interface {
	StartSession(ctx context.Context, req entity.StartSessionRequest) (*entity.SessionResponse, error)
	ResumeSession(ctx context.Context, userID int64) (*entity.SessionResponse, error)
}

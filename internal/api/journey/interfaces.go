package journey

import (
	"context"

	"github.com/homereno/journey-backend/internal/entity"
	journeyuc "github.com/homereno/journey-backend/internal/usecase/journey"
)

type JourneyUsecase interface {
	CreateJourney(ctx context.Context, userID int64) (*entity.Journey, error)
	GetJourney(ctx context.Context, id int64) (*entity.Journey, error)
	GetActiveJourney(ctx context.Context, userID int64) (*entity.Journey, error)
	ListJourneys(ctx context.Context, limit, offset int) ([]entity.Journey, error)
	UpdateJourney(ctx context.Context, id int64, req entity.UpdateJourneyRequest) (*entity.Journey, error)
	SaveCheckpoint(ctx context.Context, id int64, name, value string) (*entity.Journey, error)
	AdvanceMilestone(ctx context.Context, id int64) (*entity.Journey, bool, error)
	CompleteJourney(ctx context.Context, id int64) (*entity.Journey, error)
	GetStateForLLM(ctx context.Context, userID int64) (*entity.JourneyLLMState, error)
	ExportPlan(ctx context.Context, id int64, format entity.ResultFormat) (*journeyuc.ExportedPlan, error)
}

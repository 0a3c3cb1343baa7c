// Package journey implements journey management: CRUD, explicit checkpoint
// saves, milestone advancement, completion, the LLM state view and plan
// export.
package journey

import (
	"context"
	"errors"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/pkg/formatter"
	"github.com/homereno/journey-backend/internal/repository"
	"github.com/homereno/journey-backend/internal/usecase/milestone"
)

type Usecase struct {
	journeys   repository.JourneyRepository
	users      repository.UserRepository
	evaluator  *milestone.Evaluator
	formatters *formatter.Factory
}

func NewUsecase(
	journeys repository.JourneyRepository,
	users repository.UserRepository,
	evaluator *milestone.Evaluator,
	formatters *formatter.Factory,
) *Usecase {
	return &Usecase{
		journeys:   journeys,
		users:      users,
		evaluator:  evaluator,
		formatters: formatters,
	}
}

// CreateJourney starts a journey for the user. A user keeps at most one
// in-progress journey, so an existing active one is returned instead.
func (u *Usecase) CreateJourney(ctx context.Context, userID int64) (*entity.Journey, error) {
	if _, err := u.users.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("create journey: %w", err)
	}

	active, err := u.journeys.GetActiveJourneyByUserID(ctx, userID)
	if err == nil {
		ctxzap.Extract(ctx).Info("user already has an active journey",
			zap.Int64("user_id", userID),
			zap.Int64("journey_id", active.ID),
		)
		return active, nil
	}
	if !errors.Is(err, entity.ErrJourneyNotFound) {
		return nil, fmt.Errorf("create journey: %w", err)
	}

	return u.journeys.CreateJourney(ctx, userID)
}

func (u *Usecase) GetJourney(ctx context.Context, id int64) (*entity.Journey, error) {
	return u.journeys.GetJourneyByID(ctx, id)
}

func (u *Usecase) GetActiveJourney(ctx context.Context, userID int64) (*entity.Journey, error) {
	return u.journeys.GetActiveJourneyByUserID(ctx, userID)
}

func (u *Usecase) ListJourneys(ctx context.Context, limit, offset int) ([]entity.Journey, error) {
	return u.journeys.ListJourneys(ctx, limit, offset)
}

// UpdateJourney is the administrative partial update. Unlike the automatic
// extraction paths it may overwrite already-set checkpoints, and it is the
// only way to mark a journey abandoned.
func (u *Usecase) UpdateJourney(ctx context.Context, id int64, req entity.UpdateJourneyRequest) (*entity.Journey, error) {
	if req.Status != nil {
		if err := req.Status.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
	}
	if req.CurrentMilestone != nil {
		if *req.CurrentMilestone < entity.MilestoneProjectBasics || *req.CurrentMilestone > entity.FinalMilestone {
			return nil, fmt.Errorf("%w: milestone must be between 1 and %d", entity.ErrInvalidParameter, entity.FinalMilestone)
		}
	}

	update := entity.JourneyUpdate{
		CurrentMilestone:  req.CurrentMilestone,
		Status:            req.Status,
		Room:              req.Room,
		RenovationPurpose: req.RenovationPurpose,
		BudgetRange:       req.BudgetRange,
		Timeline:          req.Timeline,
		StylePreference:   req.StylePreference,
		PriorityFeature:   req.PriorityFeature,
	}
	return u.journeys.UpdateJourney(ctx, id, update)
}

// SaveCheckpoint writes a checkpoint value directly, overwriting any
// existing value, then re-evaluates the current milestone.
func (u *Usecase) SaveCheckpoint(ctx context.Context, id int64, name, value string) (*entity.Journey, error) {
	cp, err := entity.ParseCheckpoint(name)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, fmt.Errorf("%w: value", entity.ErrMissingField)
	}

	if _, err := u.journeys.GetJourneyByID(ctx, id); err != nil {
		return nil, err
	}

	var update entity.JourneyUpdate
	update.SetCheckpoint(cp, value)
	journey, err := u.journeys.UpdateJourney(ctx, id, update)
	if err != nil {
		return nil, err
	}

	ctxzap.Extract(ctx).Info("checkpoint saved",
		zap.Int64("journey_id", id),
		zap.String("checkpoint", string(cp)),
	)

	return u.evaluator.EvaluateCurrent(ctx, journey)
}

// AdvanceMilestone moves the journey one milestone forward, up to the final
// one. The second return reports whether the journey actually advanced.
func (u *Usecase) AdvanceMilestone(ctx context.Context, id int64) (*entity.Journey, bool, error) {
	journey, err := u.journeys.GetJourneyByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if journey.CurrentMilestone >= entity.FinalMilestone {
		return journey, false, nil
	}

	next := journey.CurrentMilestone + 1
	updated, err := u.journeys.UpdateJourney(ctx, id, entity.JourneyUpdate{CurrentMilestone: &next})
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// CompleteJourney marks the journey completed regardless of checkpoint state.
func (u *Usecase) CompleteJourney(ctx context.Context, id int64) (*entity.Journey, error) {
	if _, err := u.journeys.GetJourneyByID(ctx, id); err != nil {
		return nil, err
	}
	status := entity.JourneyStatusCompleted
	return u.journeys.UpdateJourney(ctx, id, entity.JourneyUpdate{Status: &status})
}

// GetStateForLLM returns the flattened journey view for a user: whether an
// active journey exists, its milestone and status, and which checkpoints are
// filled across all milestones.
func (u *Usecase) GetStateForLLM(ctx context.Context, userID int64) (*entity.JourneyLLMState, error) {
	journey, err := u.journeys.GetActiveJourneyByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrJourneyNotFound) {
			return &entity.JourneyLLMState{HasJourney: false}, nil
		}
		return nil, err
	}

	completed := make([]entity.Checkpoint, 0, len(entity.AllCheckpoints))
	for _, cp := range entity.AllCheckpoints {
		if journey.CheckpointValue(cp) != nil {
			completed = append(completed, cp)
		}
	}

	return &entity.JourneyLLMState{
		HasJourney:           true,
		JourneyID:            journey.ID,
		Milestone:            journey.CurrentMilestone,
		Status:               journey.Status,
		CompletedCheckpoints: completed,
		MilestoneCompleted:   journey.MilestoneCompleted(journey.CurrentMilestone),
	}, nil
}

// ExportedPlan is a rendered plan document ready to serve.
type ExportedPlan struct {
	Data        []byte
	ContentType string
	FileName    string
}

// ExportPlan renders the completed journey's plan summary in the requested
// format. Incomplete journeys cannot be exported.
func (u *Usecase) ExportPlan(ctx context.Context, id int64, format entity.ResultFormat) (*ExportedPlan, error) {
	journey, err := u.journeys.GetJourneyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if journey.Status != entity.JourneyStatusCompleted {
		return nil, entity.ErrJourneyNotCompleted
	}

	f, err := u.formatters.Create(format)
	if err != nil {
		return nil, entity.ErrInvalidFormat
	}

	data, err := f.Format(planSummary(journey))
	if err != nil {
		return nil, fmt.Errorf("render plan: %w", err)
	}

	return &ExportedPlan{
		Data:        data,
		ContentType: f.ContentType(),
		FileName:    fmt.Sprintf("renovation-plan-%d%s", journey.ID, f.FileExtension()),
	}, nil
}

func planSummary(j *entity.Journey) string {
	val := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	summary := fmt.Sprintf(
		"A %s %s renovation focusing on %s with %s as a key feature. Your budget is in the %s range with a timeline of %s.",
		val(j.StylePreference), val(j.Room), val(j.RenovationPurpose),
		val(j.PriorityFeature), val(j.BudgetRange), val(j.Timeline),
	)

	details := ""
	for _, line := range []struct {
		label string
		value *string
	}{
		{"Room", j.Room},
		{"Purpose", j.RenovationPurpose},
		{"Budget", j.BudgetRange},
		{"Timeline", j.Timeline},
		{"Style", j.StylePreference},
		{"Priority Feature", j.PriorityFeature},
	} {
		details += fmt.Sprintf("\n- %s: %s", line.label, val(line.value))
	}

	return summary + "\n" + details
}

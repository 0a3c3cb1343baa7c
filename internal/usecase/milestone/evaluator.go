// Package milestone evaluates journey milestone completion. A milestone is
// complete when both of its checkpoints hold values; completing the final
// milestone also completes the journey.
package milestone

import (
	"context"
	"time"

	"github.com/homereno/journey-backend/internal/checkpoint"
	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository"
)

type Evaluator struct {
	journeys repository.JourneyRepository
}

func NewEvaluator(journeys repository.JourneyRepository) *Evaluator {
	return &Evaluator{journeys: journeys}
}

// EvaluateCurrent checks only the journey's current milestone and marks it
// complete when both of its checkpoints are filled. Already-completed
// milestones are left untouched, so repeated calls are no-ops.
func (e *Evaluator) EvaluateCurrent(ctx context.Context, journey *entity.Journey) (*entity.Journey, error) {
	if journey.MilestoneCompleted(journey.CurrentMilestone) {
		return journey, nil
	}
	if !milestoneFilled(journey, journey.CurrentMilestone) {
		return journey, nil
	}

	var update entity.JourneyUpdate
	markCompleted(&update, journey.CurrentMilestone)

	return e.journeys.UpdateJourney(ctx, journey.ID, update)
}

// EvaluateAll re-checks every milestone and advances current_milestone to
// min(final, highest completed + 1). The milestone pointer only moves
// forward; nothing here ever lowers it or clears a completion flag.
func (e *Evaluator) EvaluateAll(ctx context.Context, journey *entity.Journey) (*entity.Journey, error) {
	var update entity.JourneyUpdate

	highestCompleted := 0
	for m := entity.MilestoneProjectBasics; m <= entity.FinalMilestone; m++ {
		if journey.MilestoneCompleted(m) {
			highestCompleted = m
			continue
		}
		if milestoneFilled(journey, m) {
			markCompleted(&update, m)
			highestCompleted = m
		}
	}

	if highestCompleted < entity.FinalMilestone {
		next := highestCompleted + 1
		if journey.CurrentMilestone < next {
			update.CurrentMilestone = &next
		}
	}

	if update.IsEmpty() {
		return journey, nil
	}
	return e.journeys.UpdateJourney(ctx, journey.ID, update)
}

func milestoneFilled(journey *entity.Journey, m int) bool {
	cps, ok := checkpoint.ForMilestone(m)
	if !ok {
		return false
	}
	return journey.CheckpointValue(cps[0]) != nil && journey.CheckpointValue(cps[1]) != nil
}

func markCompleted(update *entity.JourneyUpdate, m int) {
	now := time.Now().UTC()
	completed := true
	switch m {
	case entity.MilestoneProjectBasics:
		update.Milestone1Completed = &completed
		update.Milestone1CompletedAt = &now
	case entity.MilestoneBudgetTimeline:
		update.Milestone2Completed = &completed
		update.Milestone2CompletedAt = &now
	case entity.MilestoneStylePlan:
		update.Milestone3Completed = &completed
		update.Milestone3CompletedAt = &now
		status := entity.JourneyStatusCompleted
		update.Status = &status
	}
}

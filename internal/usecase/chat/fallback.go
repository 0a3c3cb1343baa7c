package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/entity"
)

// Fallback keyword tables used when response generation fails. These are a
// separate, smaller vocabulary than the normalizers and their values are
// stored as-is.
type fallbackKeyword struct {
	keyword string
	value   string
}

var fallbackRooms = []fallbackKeyword{
	{"kitchen", "kitchen"},
	{"bathroom", "bathroom"},
	{"bedroom", "bedroom"},
	{"living room", "living room"},
	{"basement", "basement"},
}

var fallbackPurposes = []fallbackKeyword{
	{"aesthetic", "aesthetic"},
	{"functional", "functional"},
	{"repair", "repair"},
	{"expand", "expand space"},
	{"modern", "modernize"},
}

var fallbackBudgets = []fallbackKeyword{
	{"cheap", "low"},
	{"affordable", "low"},
	{"reasonable", "medium"},
	{"mid", "medium"},
	{"expensive", "high"},
	{"luxury", "high"},
}

var fallbackTimelines = []fallbackKeyword{
	{"quick", "weeks"},
	{"fast", "weeks"},
	{"soon", "weeks"},
	{"month", "months"},
	{"long", "months"},
}

var fallbackStyles = []fallbackKeyword{
	{"modern", "modern"},
	{"traditional", "traditional"},
	{"rustic", "rustic"},
	{"minimalist", "minimalist"},
	{"contemporary", "contemporary"},
}

var fallbackFeatures = []fallbackKeyword{
	{"storage", "increased storage"},
	{"light", "natural lighting"},
	{"space", "open space"},
	{"energy", "energy efficiency"},
	{"smart", "smart home features"},
}

func matchFallback(table []fallbackKeyword, message string) (string, bool) {
	for _, entry := range table {
		if strings.Contains(message, entry.keyword) {
			return entry.value, true
		}
	}
	return "", false
}

// extractWithKeywords scans the message for the current milestone's
// checkpoints and fills any that are still empty. After a write it runs the
// current-milestone completion check and returns the refreshed journey.
func (u *Usecase) extractWithKeywords(ctx context.Context, journey *entity.Journey, message string) (*entity.Journey, bool) {
	logger := ctxzap.Extract(ctx)
	lower := strings.ToLower(message)

	type candidate struct {
		cp    entity.Checkpoint
		table []fallbackKeyword
		empty bool
	}

	var candidates []candidate
	switch journey.CurrentMilestone {
	case entity.MilestoneProjectBasics:
		candidates = []candidate{
			{entity.CheckpointRoom, fallbackRooms, journey.Room == nil},
			{entity.CheckpointRenovationPurpose, fallbackPurposes, journey.RenovationPurpose == nil},
		}
	case entity.MilestoneBudgetTimeline:
		candidates = []candidate{
			{entity.CheckpointBudgetRange, fallbackBudgets, journey.BudgetRange == nil},
			{entity.CheckpointTimeline, fallbackTimelines, journey.Timeline == nil},
		}
	case entity.MilestoneStylePlan:
		candidates = []candidate{
			{entity.CheckpointStylePreference, fallbackStyles, journey.StylePreference == nil},
			{entity.CheckpointPriorityFeature, fallbackFeatures, journey.PriorityFeature == nil},
		}
	}

	wrote := false
	for _, c := range candidates {
		if !c.empty {
			continue
		}
		value, ok := matchFallback(c.table, lower)
		if !ok {
			continue
		}
		written, err := u.journeys.SetCheckpointIfEmpty(ctx, journey.ID, c.cp, value)
		if err != nil {
			logger.Error("fallback checkpoint write failed",
				zap.Int64("journey_id", journey.ID),
				zap.String("checkpoint", string(c.cp)),
				zap.Error(err),
			)
			continue
		}
		if written {
			logger.Info("fallback wrote checkpoint",
				zap.Int64("journey_id", journey.ID),
				zap.String("checkpoint", string(c.cp)),
				zap.String("value", value),
			)
			wrote = true
		}
	}

	if !wrote {
		return journey, false
	}

	fresh, err := u.journeys.GetJourneyByID(ctx, journey.ID)
	if err != nil {
		logger.Error("fallback refetch failed", zap.Int64("journey_id", journey.ID), zap.Error(err))
		return journey, true
	}
	updated, err := u.evaluator.EvaluateCurrent(ctx, fresh)
	if err != nil {
		logger.Error("fallback milestone evaluation failed", zap.Int64("journey_id", journey.ID), zap.Error(err))
		return fresh, true
	}
	return updated, true
}

// fallbackResponse builds the templated reply used when the model is
// unavailable. A completed journey gets the full plan summary.
func fallbackResponse(journey *entity.Journey) string {
	val := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	if journey.Status == entity.JourneyStatusCompleted {
		return fmt.Sprintf(
			"Your renovation plan is complete! To summarize: A %s %s renovation focusing on %s with %s as a key feature. Your budget is in the %s range with a timeline of %s. Thank you for using our service!",
			val(journey.StylePreference), val(journey.Room), val(journey.RenovationPurpose),
			val(journey.PriorityFeature), val(journey.BudgetRange), val(journey.Timeline),
		)
	}

	completed := completedForCurrentMilestone(journey)
	has := func(cp entity.Checkpoint) bool {
		for _, c := range completed {
			if c == cp {
				return true
			}
		}
		return false
	}

	response := "Thanks for your message! I'm helping you plan your renovation."

	switch journey.CurrentMilestone {
	case entity.MilestoneProjectBasics:
		response += " Let's start by figuring out the basic details of your project."
		switch {
		case !has(entity.CheckpointRoom):
			response += " Which room are you planning to renovate?"
		case !has(entity.CheckpointRenovationPurpose):
			response += fmt.Sprintf(" What's the main purpose of renovating your %s?", val(journey.Room))
		case journey.Milestone1Completed:
			response += fmt.Sprintf(
				" Great! We've established that you want to renovate your %s for %s. Let's move on to budget and timeline considerations.",
				val(journey.Room), val(journey.RenovationPurpose),
			)
		}
	case entity.MilestoneBudgetTimeline:
		response += " Now let's talk about your budget and timeline."
		switch {
		case !has(entity.CheckpointBudgetRange):
			response += " What kind of budget do you have in mind? (low, medium, high)"
		case !has(entity.CheckpointTimeline):
			response += fmt.Sprintf(" How quickly are you hoping to complete this %s renovation?", val(journey.Room))
		case journey.Milestone2Completed:
			response += fmt.Sprintf(
				" Perfect! You're looking at a %s budget with a timeline of %s. Let's discuss your style preferences next.",
				val(journey.BudgetRange), val(journey.Timeline),
			)
		}
	case entity.MilestoneStylePlan:
		response += " Finally, let's talk about style and specific features."
		switch {
		case !has(entity.CheckpointStylePreference):
			response += " What style are you going for? (modern, traditional, etc.)"
		case !has(entity.CheckpointPriorityFeature):
			response += fmt.Sprintf(
				" What's the most important feature you want in your %s %s?",
				val(journey.StylePreference), val(journey.Room),
			)
		case journey.Milestone3Completed:
			response += fmt.Sprintf(
				" Excellent! I now have a complete picture of your renovation plans. You want a %s %s with %s as a priority feature, on a %s budget, completing in %s. Your renovation journey is complete!",
				val(journey.StylePreference), val(journey.Room), val(journey.PriorityFeature),
				val(journey.BudgetRange), val(journey.Timeline),
			)
		}
	}

	return response
}

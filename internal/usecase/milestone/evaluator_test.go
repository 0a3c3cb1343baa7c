package milestone

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository/repositorytest"
)

func strPtr(s string) *string { return &s }

func TestEvaluateCurrentCompletesMilestone1(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	j := journeys.Seed(entity.Journey{
		UserID:            1,
		CurrentMilestone:  1,
		Room:              strPtr("kitchen"),
		RenovationPurpose: strPtr("aesthetic"),
	})
	eval := NewEvaluator(journeys)

	updated, err := eval.EvaluateCurrent(context.Background(), &j)
	require.NoError(t, err)
	assert.True(t, updated.Milestone1Completed)
	assert.NotNil(t, updated.Milestone1CompletedAt)
	// current-only evaluation does not advance the milestone pointer
	assert.Equal(t, 1, updated.CurrentMilestone)
	assert.Equal(t, entity.JourneyStatusInProgress, updated.Status)
}

func TestEvaluateCurrentPartialMilestoneIsNoop(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	j := journeys.Seed(entity.Journey{
		UserID:           1,
		CurrentMilestone: 1,
		Room:             strPtr("kitchen"),
	})
	eval := NewEvaluator(journeys)

	updated, err := eval.EvaluateCurrent(context.Background(), &j)
	require.NoError(t, err)
	assert.False(t, updated.Milestone1Completed)
}

func TestEvaluateCurrentFinalMilestoneCompletesJourney(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	j := journeys.Seed(entity.Journey{
		UserID:           1,
		CurrentMilestone: 3,
		StylePreference:  strPtr("modern"),
		PriorityFeature:  strPtr("storage"),
	})
	eval := NewEvaluator(journeys)

	updated, err := eval.EvaluateCurrent(context.Background(), &j)
	require.NoError(t, err)
	assert.True(t, updated.Milestone3Completed)
	assert.Equal(t, entity.JourneyStatusCompleted, updated.Status)
}

func TestEvaluateAllAdvancesMilestone(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	j := journeys.Seed(entity.Journey{
		UserID:            1,
		CurrentMilestone:  1,
		Room:              strPtr("kitchen"),
		RenovationPurpose: strPtr("functional"),
	})
	eval := NewEvaluator(journeys)

	updated, err := eval.EvaluateAll(context.Background(), &j)
	require.NoError(t, err)
	assert.True(t, updated.Milestone1Completed)
	assert.Equal(t, 2, updated.CurrentMilestone)
}

func TestEvaluateAllNeverLowersMilestone(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	// milestone pointer already past the highest completed milestone
	j := journeys.Seed(entity.Journey{
		UserID:           1,
		CurrentMilestone: 3,
	})
	eval := NewEvaluator(journeys)

	updated, err := eval.EvaluateAll(context.Background(), &j)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.CurrentMilestone)
}

func TestEvaluateAllCapsAtFinalMilestone(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	j := journeys.Seed(entity.Journey{
		UserID:            1,
		CurrentMilestone:  3,
		Room:              strPtr("kitchen"),
		RenovationPurpose: strPtr("functional"),
		BudgetRange:       strPtr("medium"),
		Timeline:          strPtr("months"),
		StylePreference:   strPtr("modern"),
		PriorityFeature:   strPtr("storage"),
	})
	eval := NewEvaluator(journeys)

	updated, err := eval.EvaluateAll(context.Background(), &j)
	require.NoError(t, err)
	assert.True(t, updated.Milestone1Completed)
	assert.True(t, updated.Milestone2Completed)
	assert.True(t, updated.Milestone3Completed)
	assert.Equal(t, 3, updated.CurrentMilestone)
	assert.Equal(t, entity.JourneyStatusCompleted, updated.Status)
}

func TestEvaluateAllFullJourneyBehindPointer(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	j := journeys.Seed(entity.Journey{
		UserID:            1,
		CurrentMilestone:  1,
		Room:              strPtr("kitchen"),
		RenovationPurpose: strPtr("functional"),
		BudgetRange:       strPtr("medium"),
		Timeline:          strPtr("months"),
		StylePreference:   strPtr("modern"),
		PriorityFeature:   strPtr("storage"),
	})
	eval := NewEvaluator(journeys)

	updated, err := eval.EvaluateAll(context.Background(), &j)
	require.NoError(t, err)
	assert.True(t, updated.Milestone3Completed)
	assert.Equal(t, entity.JourneyStatusCompleted, updated.Status)
	// The pointer stays put once everything is complete.
	assert.Equal(t, 1, updated.CurrentMilestone)
}

func TestEvaluateAllIsIdempotent(t *testing.T) {
	journeys := repositorytest.NewFakeJourneys()
	j := journeys.Seed(entity.Journey{
		UserID:            1,
		CurrentMilestone:  1,
		Room:              strPtr("kitchen"),
		RenovationPurpose: strPtr("functional"),
	})
	eval := NewEvaluator(journeys)

	first, err := eval.EvaluateAll(context.Background(), &j)
	require.NoError(t, err)
	firstAt := first.Milestone1CompletedAt

	second, err := eval.EvaluateAll(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, firstAt, second.Milestone1CompletedAt)
	assert.Equal(t, first.CurrentMilestone, second.CurrentMilestone)
}

package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/homereno/journey-backend/internal/entity"
)

func strptr(s string) *string { return &s }

func TestSelectPromptVariant(t *testing.T) {
	tests := []struct {
		name      string
		journey   entity.Journey
		completed []entity.Checkpoint
		want      promptVariant
	}{
		{
			name:    "fresh journey gets milestone 1 intro",
			journey: entity.Journey{CurrentMilestone: 1, Status: entity.JourneyStatusInProgress},
			want:    promptMilestone1Intro,
		},
		{
			name:      "room known asks for purpose",
			journey:   entity.Journey{CurrentMilestone: 1, Status: entity.JourneyStatusInProgress, Room: strptr("kitchen")},
			completed: []entity.Checkpoint{entity.CheckpointRoom},
			want:      promptMilestone1RoomKnown,
		},
		{
			name:      "purpose known asks for room",
			journey:   entity.Journey{CurrentMilestone: 1, Status: entity.JourneyStatusInProgress, RenovationPurpose: strptr("functional")},
			completed: []entity.Checkpoint{entity.CheckpointRenovationPurpose},
			want:      promptMilestone1PurposeKnown,
		},
		{
			name: "milestone 1 complete summarizes",
			journey: entity.Journey{
				CurrentMilestone: 1, Status: entity.JourneyStatusInProgress,
				Room: strptr("kitchen"), RenovationPurpose: strptr("functional"),
				Milestone1Completed: true,
			},
			completed: []entity.Checkpoint{entity.CheckpointRoom, entity.CheckpointRenovationPurpose},
			want:      promptMilestone1Complete,
		},
		{
			name:      "budget known asks for timeline",
			journey:   entity.Journey{CurrentMilestone: 2, Status: entity.JourneyStatusInProgress, BudgetRange: strptr("medium")},
			completed: []entity.Checkpoint{entity.CheckpointBudgetRange},
			want:      promptMilestone2BudgetKnown,
		},
		{
			name:      "timeline known asks for budget",
			journey:   entity.Journey{CurrentMilestone: 2, Status: entity.JourneyStatusInProgress, Timeline: strptr("months")},
			completed: []entity.Checkpoint{entity.CheckpointTimeline},
			want:      promptMilestone2TimelineKnown,
		},
		{
			name:      "feature known asks for style",
			journey:   entity.Journey{CurrentMilestone: 3, Status: entity.JourneyStatusInProgress, PriorityFeature: strptr("open space")},
			completed: []entity.Checkpoint{entity.CheckpointPriorityFeature},
			want:      promptMilestone3FeatureKnown,
		},
		{
			name:    "completed journey wins over milestone state",
			journey: entity.Journey{CurrentMilestone: 3, Status: entity.JourneyStatusCompleted},
			want:    promptJourneyComplete,
		},
		{
			name:    "out of range milestone falls back to default",
			journey: entity.Journey{CurrentMilestone: 7, Status: entity.JourneyStatusInProgress},
			want:    promptDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectPromptVariant(&tt.journey, tt.completed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderPromptRoomKnown(t *testing.T) {
	j := &entity.Journey{CurrentMilestone: 1, Status: entity.JourneyStatusInProgress, Room: strptr("kitchen")}
	completed := []entity.Checkpoint{entity.CheckpointRoom}

	prompt := renderPrompt(promptMilestone1RoomKnown, j, buildContext(j, completed), completed)

	assert.Contains(t, prompt, "they want to renovate their kitchen")
	assert.Contains(t, prompt, "Completed checkpoints: [room]")
	assert.Contains(t, prompt, "room: kitchen")
}

func TestRenderPromptJourneyComplete(t *testing.T) {
	j := &entity.Journey{
		CurrentMilestone: 3,
		Status:           entity.JourneyStatusCompleted,
		Room:             strptr("bathroom"),
		RenovationPurpose: strptr("repair"),
		BudgetRange:      strptr("high"),
		Timeline:         strptr("weeks"),
		StylePreference:  strptr("modern"),
		PriorityFeature:  strptr("natural lighting"),
	}

	prompt := renderPrompt(promptJourneyComplete, j, nil, nil)

	assert.Contains(t, prompt, "completed their renovation journey")
	assert.Contains(t, prompt, "- Room: bathroom")
	assert.Contains(t, prompt, "- Style: modern")
	assert.Contains(t, prompt, "- Priority Feature: natural lighting")
}

func TestFormatContextDeterministic(t *testing.T) {
	info := map[string]string{
		"room":      "kitchen",
		"milestone": "2",
		"budget_range": "low",
	}

	first := formatContext(info)
	assert.Equal(t, "{budget_range: low, milestone: 2, room: kitchen}", first)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, formatContext(info))
	}
}

func TestBuildContextHidesLaterMilestones(t *testing.T) {
	j := &entity.Journey{
		CurrentMilestone: 1,
		Status:           entity.JourneyStatusInProgress,
		Room:             strptr("kitchen"),
		// Set out of band; milestone 2 has not been reached yet.
		BudgetRange: strptr("high"),
	}

	info := buildContext(j, completedForCurrentMilestone(j))

	assert.Equal(t, "kitchen", info["room"])
	assert.NotContains(t, info, "budget_range")
	assert.Equal(t, "1", info["milestone"])
}

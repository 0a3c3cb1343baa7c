package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homereno/journey-backend/internal/entity"
)

func TestNormalizeBudget(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"very affordable option", "low"},
		{"I want to keep costs down, something cheap", "low"},
		{"a reasonable budget", "medium"},
		{"mid-range", "medium"},
		{"money is no object, luxury all the way", "high"},
		{"Premium finishes", "high"},
		{"whatever works", "medium"},
		{"", "medium"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(entity.CheckpointBudgetRange, tc.in), tc.in)
	}
}

func TestNormalizeTimeline(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"need it done in two weeks", "weeks"},
		{"ASAP", "weeks"},
		{"a few days", "weeks"},
		{"no rush at all", "months"},
		{"sometime in the coming months", "months"},
		{"whenever", "months"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(entity.CheckpointTimeline, tc.in), tc.in)
	}
}

func TestNormalizeStyle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"something with clean lines", "modern"},
		{"sleek and modern", "modern"},
		{"classic designs", "traditional"},
		{"farmhouse feel", "rustic"},
		{"keep it simple", "minimalist"},
		{"no idea", "modern"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(entity.CheckpointStylePreference, tc.in), tc.in)
	}
}

func TestNormalizePriorityFeature(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"eco-friendly appliances please", "energy efficiency"},
		{"more cabinet space", "storage"},
		{"the room is too dark", "lighting"},
		{"open floor plan", "space"},
		{"home automation everywhere", "smart features"},
		{"durability", "space"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(entity.CheckpointPriorityFeature, tc.in), tc.in)
	}
}

func TestNormalizeRoom(t *testing.T) {
	assert.Equal(t, "kitchen", Normalize(entity.CheckpointRoom, "My KITCHEN needs work"))
	assert.Equal(t, "living room", Normalize(entity.CheckpointRoom, "the living room"))
	// unknown rooms pass through lowercased
	assert.Equal(t, "wine cellar", Normalize(entity.CheckpointRoom, " Wine Cellar "))
}

func TestNormalizePurpose(t *testing.T) {
	assert.Equal(t, "aesthetic", Normalize(entity.CheckpointRenovationPurpose, "I want it to look better"))
	assert.Equal(t, "repair", Normalize(entity.CheckpointRenovationPurpose, "the pipes broke"))
	assert.Equal(t, "expand space", Normalize(entity.CheckpointRenovationPurpose, "make it bigger"))
	// unmatched purposes pass through
	assert.Equal(t, "resale value", Normalize(entity.CheckpointRenovationPurpose, "resale value"))
}

func TestNormalizeIsDeterministic(t *testing.T) {
	// "clean" appears in both the modern and minimalist tables; the modern
	// rule is evaluated first, always.
	for i := 0; i < 50; i++ {
		require.Equal(t, "modern", Normalize(entity.CheckpointStylePreference, "clean"))
	}
	// "space" appears in both storage and space tables; storage wins.
	for i := 0; i < 50; i++ {
		require.Equal(t, "storage", Normalize(entity.CheckpointPriorityFeature, "more space"))
	}
}

func TestRegistry(t *testing.T) {
	cps, ok := ForMilestone(1)
	require.True(t, ok)
	assert.Equal(t, [2]entity.Checkpoint{entity.CheckpointRoom, entity.CheckpointRenovationPurpose}, cps)

	_, ok = ForMilestone(4)
	assert.False(t, ok)

	m, ok := Milestone(entity.CheckpointTimeline)
	require.True(t, ok)
	assert.Equal(t, 2, m)

	_, ok = Milestone(entity.Checkpoint("bogus"))
	assert.False(t, ok)
}

func TestNextToExtract(t *testing.T) {
	room := "kitchen"
	purpose := "aesthetic"

	j := &entity.Journey{CurrentMilestone: 1}
	cp, ok := NextToExtract(j)
	require.True(t, ok)
	assert.Equal(t, entity.CheckpointRoom, cp)

	j.Room = &room
	cp, ok = NextToExtract(j)
	require.True(t, ok)
	assert.Equal(t, entity.CheckpointRenovationPurpose, cp)

	j.RenovationPurpose = &purpose
	_, ok = NextToExtract(j)
	assert.False(t, ok)

	j.CurrentMilestone = 7
	_, ok = NextToExtract(j)
	assert.False(t, ok)
}

package checkpoint

import (
	"strings"

	"github.com/homereno/journey-backend/internal/entity"
)

// keywordRule maps any matching substring to a canonical value. Rules are
// evaluated in order and the first match wins, so the tables below are
// slices rather than maps.
type keywordRule struct {
	keywords  []string
	canonical string
}

func matchRules(rules []keywordRule, value string) (string, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(value, kw) {
				return rule.canonical, true
			}
		}
	}
	return "", false
}

var validRooms = []string{
	"kitchen", "bathroom", "bedroom", "living room", "dining room",
	"basement", "attic", "office", "master bedroom", "guest bedroom",
	"den", "family room", "laundry room", "utility room", "garage",
}

var validPurposes = []string{
	"aesthetic", "functional", "repair", "modernize", "expand space",
}

var purposeSynonyms = []keywordRule{
	{[]string{"look", "appearanc", "beaut"}, "aesthetic"},
	{[]string{"use", "practi", "utili"}, "functional"},
	{[]string{"fix", "broke", "damage"}, "repair"},
	{[]string{"updat", "renew", "fresh"}, "modernize"},
	{[]string{"more room", "bigger", "larger"}, "expand space"},
}

var budgetRules = []keywordRule{
	{[]string{"low", "cheap", "afford", "budget", "inexpens"}, "low"},
	{[]string{"medium", "moderate", "reasonable", "mid"}, "medium"},
	{[]string{"high", "expens", "premium", "luxury"}, "high"},
}

var timelineRules = []keywordRule{
	{[]string{"quick", "fast", "soon", "week", "day", "asap"}, "weeks"},
	{[]string{"slow", "month", "time", "no rush", "not urgent"}, "months"},
}

var styleRules = []keywordRule{
	{[]string{"modern", "contemporary", "sleek", "clean"}, "modern"},
	{[]string{"tradition", "classic", "conventional"}, "traditional"},
	{[]string{"rustic", "country", "farmhouse", "cabin", "wood"}, "rustic"},
	{[]string{"minimal", "simple", "clean"}, "minimalist"},
	{[]string{"contemp", "current"}, "contemporary"},
}

var featureRules = []keywordRule{
	{[]string{"storage", "cabinet", "space", "organization"}, "storage"},
	{[]string{"light", "bright", "dark", "window"}, "lighting"},
	{[]string{"space", "room", "area", "open"}, "space"},
	{[]string{"energy", "efficient", "eco", "green"}, "energy efficiency"},
	{[]string{"smart", "tech", "automation", "device"}, "smart features"},
}

// Normalize maps a raw extracted value to its canonical form for the given
// checkpoint. Room and purpose pass unknown values through unchanged; the
// categorical checkpoints fall back to a documented default (medium, months,
// modern, space) so an extraction never yields an unusable value.
func Normalize(cp entity.Checkpoint, raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))

	switch cp {
	case entity.CheckpointRoom:
		for _, room := range validRooms {
			if strings.Contains(value, room) {
				return room
			}
		}
		return value

	case entity.CheckpointRenovationPurpose:
		for _, purpose := range validPurposes {
			if strings.Contains(value, purpose) {
				return purpose
			}
		}
		if canonical, ok := matchRules(purposeSynonyms, value); ok {
			return canonical
		}
		return value

	case entity.CheckpointBudgetRange:
		if canonical, ok := matchRules(budgetRules, value); ok {
			return canonical
		}
		return "medium"

	case entity.CheckpointTimeline:
		if canonical, ok := matchRules(timelineRules, value); ok {
			return canonical
		}
		return "months"

	case entity.CheckpointStylePreference:
		if canonical, ok := matchRules(styleRules, value); ok {
			return canonical
		}
		return "modern"

	case entity.CheckpointPriorityFeature:
		if canonical, ok := matchRules(featureRules, value); ok {
			return canonical
		}
		return "space"
	}

	return value
}

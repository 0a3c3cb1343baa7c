// Package checkpoint holds the static journey structure: which checkpoints
// belong to which milestone, the question asked for each, the extraction
// guidance shown to the model, and the value normalizers.
package checkpoint

import "github.com/homereno/journey-backend/internal/entity"

// milestoneCheckpoints maps each milestone to its two checkpoints in
// collection order.
var milestoneCheckpoints = map[int][2]entity.Checkpoint{
	entity.MilestoneProjectBasics:  {entity.CheckpointRoom, entity.CheckpointRenovationPurpose},
	entity.MilestoneBudgetTimeline: {entity.CheckpointBudgetRange, entity.CheckpointTimeline},
	entity.MilestoneStylePlan:      {entity.CheckpointStylePreference, entity.CheckpointPriorityFeature},
}

// ForMilestone returns the checkpoints of a milestone in order.
// Unknown milestones return ok=false.
func ForMilestone(milestone int) ([2]entity.Checkpoint, bool) {
	cps, ok := milestoneCheckpoints[milestone]
	return cps, ok
}

// Milestone returns the milestone a checkpoint belongs to.
func Milestone(cp entity.Checkpoint) (int, bool) {
	for m, cps := range milestoneCheckpoints {
		if cps[0] == cp || cps[1] == cp {
			return m, true
		}
	}
	return 0, false
}

var questions = map[entity.Checkpoint]string{
	entity.CheckpointRoom:              "Which room do you want to renovate?",
	entity.CheckpointRenovationPurpose: "What is the main purpose of your renovation?",
	entity.CheckpointBudgetRange:       "What kind of budget do you have in mind for this renovation?",
	entity.CheckpointTimeline:          "How quickly are you hoping to complete this renovation?",
	entity.CheckpointStylePreference:   "What style are you going for in this renovation?",
	entity.CheckpointPriorityFeature:   "What's the most important feature you want in your renovation?",
}

// Question returns the question the assistant asks to collect a checkpoint.
func Question(cp entity.Checkpoint) string {
	return questions[cp]
}

// NextToExtract returns the first unfilled checkpoint of the journey's
// current milestone, or ok=false when both are already collected or the
// milestone is out of range.
func NextToExtract(j *entity.Journey) (entity.Checkpoint, bool) {
	cps, ok := milestoneCheckpoints[j.CurrentMilestone]
	if !ok {
		return "", false
	}
	for _, cp := range cps {
		if j.CheckpointValue(cp) == nil {
			return cp, true
		}
	}
	return "", false
}

var guidance = map[entity.Checkpoint]string{
	entity.CheckpointRoom: `ROOM GUIDELINES:
- Look for mentions of specific rooms (kitchen, bathroom, bedroom, etc.)
- Extract just the room name (e.g., "kitchen", "bathroom", "master bedroom")
- Examples: "I want to renovate my kitchen", "My bathroom needs work", "The living room is outdated"
- Valid values include: kitchen, bathroom, bedroom, living room, dining room, basement, attic, office, etc.`,

	entity.CheckpointRenovationPurpose: `RENOVATION PURPOSE GUIDELINES:
- Look for why the user wants to renovate
- Categorize as one of: aesthetic, functional, repair, modernize, expand space
- Examples: "I want it to look better" (aesthetic), "I need more counter space" (functional), "The pipes are leaking" (repair)
- The purpose should be a single word or short phrase from the standard categories`,

	entity.CheckpointBudgetRange: `BUDGET RANGE GUIDELINES:
- Look for mentions of budget or cost expectations
- Categorize as: low, medium, or high
- Examples: "I want to keep costs down" (low), "I have a reasonable budget" (medium), "Money is no object" (high)
- The budget should be one of the three standard categories: low, medium, high`,

	entity.CheckpointTimeline: `TIMELINE GUIDELINES:
- Look for mentions of timing or scheduling expectations
- Categorize as: weeks or months
- Examples: "I need this done ASAP" (weeks), "I'm not in a rush" (months), "Before summer" (months)
- The timeline should be one of the two standard categories: weeks, months`,

	entity.CheckpointStylePreference: `STYLE PREFERENCE GUIDELINES:
- Look for mentions of design style or aesthetic preferences
- Categorize as: modern, traditional, rustic, minimalist, contemporary
- Examples: "I like clean lines" (modern), "I prefer classic designs" (traditional), "I want a cabin feel" (rustic)
- The style should be one of the standard categories mentioned above`,

	entity.CheckpointPriorityFeature: `PRIORITY FEATURE GUIDELINES:
- Look for mentions of what features are most important to the user
- Categorize as: storage, lighting, space, energy efficiency, smart features
- Examples: "I need more cabinet space" (storage), "The room is too dark" (lighting), "I want eco-friendly appliances" (energy efficiency)
- The priority feature should be one of the standard categories mentioned above`,
}

// Guidance returns the extraction guidance block for a checkpoint.
func Guidance(cp entity.Checkpoint) string {
	return guidance[cp]
}

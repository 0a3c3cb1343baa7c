package entity

import (
	"fmt"
	"time"
)

type JourneyStatus string

// Journey status represents the lifecycle of a renovation planning journey
const (
	JourneyStatusInProgress JourneyStatus = "in_progress"
	JourneyStatusCompleted  JourneyStatus = "completed"
	JourneyStatusAbandoned  JourneyStatus = "abandoned" // set only via the administrative update API
)

func (s JourneyStatus) Validate() error {
	switch s {
	case JourneyStatusInProgress, JourneyStatusCompleted, JourneyStatusAbandoned:
		return nil
	default:
		return fmt.Errorf("unknown journey status: %s", s)
	}
}

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

func (s Speaker) Validate() error {
	switch s {
	case SpeakerUser, SpeakerAssistant:
		return nil
	default:
		return fmt.Errorf("unknown speaker: %s", s)
	}
}

// Checkpoint is the closed set of facts collected across the journey.
type Checkpoint string

const (
	CheckpointRoom              Checkpoint = "room"
	CheckpointRenovationPurpose Checkpoint = "renovation_purpose"
	CheckpointBudgetRange       Checkpoint = "budget_range"
	CheckpointTimeline          Checkpoint = "timeline"
	CheckpointStylePreference   Checkpoint = "style_preference"
	CheckpointPriorityFeature   Checkpoint = "priority_feature"
)

// AllCheckpoints lists every checkpoint in milestone order.
var AllCheckpoints = []Checkpoint{
	CheckpointRoom,
	CheckpointRenovationPurpose,
	CheckpointBudgetRange,
	CheckpointTimeline,
	CheckpointStylePreference,
	CheckpointPriorityFeature,
}

func ParseCheckpoint(name string) (Checkpoint, error) {
	cp := Checkpoint(name)
	for _, known := range AllCheckpoints {
		if cp == known {
			return cp, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidCheckpoint, name)
}

const (
	MilestoneProjectBasics  = 1
	MilestoneBudgetTimeline = 2
	MilestoneStylePlan      = 3

	FinalMilestone = 3
)

type User struct {
	ID        int64     `json:"id"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Journey tracks a user's single pass through the three-milestone
// renovation planning flow. Checkpoint fields stay nil until collected
// and are never cleared afterwards.
type Journey struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"user_id"`
	CurrentMilestone int           `json:"current_milestone"`
	Status           JourneyStatus `json:"status"`

	// Milestone 1: project basics
	Room              *string `json:"room,omitempty"`
	RenovationPurpose *string `json:"renovation_purpose,omitempty"`

	// Milestone 2: budget and timeline
	BudgetRange *string `json:"budget_range,omitempty"`
	Timeline    *string `json:"timeline,omitempty"`

	// Milestone 3: style preferences and plan
	StylePreference *string `json:"style_preference,omitempty"`
	PriorityFeature *string `json:"priority_feature,omitempty"`

	Milestone1Completed   bool       `json:"milestone1_completed"`
	Milestone2Completed   bool       `json:"milestone2_completed"`
	Milestone3Completed   bool       `json:"milestone3_completed"`
	Milestone1CompletedAt *time.Time `json:"milestone1_completed_at,omitempty"`
	Milestone2CompletedAt *time.Time `json:"milestone2_completed_at,omitempty"`
	Milestone3CompletedAt *time.Time `json:"milestone3_completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckpointValue returns the stored value for the given checkpoint,
// or nil when it has not been collected yet.
func (j *Journey) CheckpointValue(cp Checkpoint) *string {
	switch cp {
	case CheckpointRoom:
		return j.Room
	case CheckpointRenovationPurpose:
		return j.RenovationPurpose
	case CheckpointBudgetRange:
		return j.BudgetRange
	case CheckpointTimeline:
		return j.Timeline
	case CheckpointStylePreference:
		return j.StylePreference
	case CheckpointPriorityFeature:
		return j.PriorityFeature
	default:
		return nil
	}
}

// MilestoneCompleted reports the completion flag for milestone 1..3.
func (j *Journey) MilestoneCompleted(milestone int) bool {
	switch milestone {
	case MilestoneProjectBasics:
		return j.Milestone1Completed
	case MilestoneBudgetTimeline:
		return j.Milestone2Completed
	case MilestoneStylePlan:
		return j.Milestone3Completed
	default:
		return false
	}
}

// Changed compares the fields the Sentinel may touch: the six checkpoint
// values, the three completion flags, the current milestone and the status.
func (j *Journey) Changed(other *Journey) bool {
	if other == nil {
		return true
	}
	for _, cp := range AllCheckpoints {
		if !equalPtr(j.CheckpointValue(cp), other.CheckpointValue(cp)) {
			return true
		}
	}
	return j.Milestone1Completed != other.Milestone1Completed ||
		j.Milestone2Completed != other.Milestone2Completed ||
		j.Milestone3Completed != other.Milestone3Completed ||
		j.CurrentMilestone != other.CurrentMilestone ||
		j.Status != other.Status
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Message is an immutable conversation record. CurrentMilestone snapshots
// the journey milestone at the moment the message was sent.
type Message struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	JourneyID        int64     `json:"journey_id"`
	Speaker          Speaker   `json:"speaker"`
	Content          string    `json:"content"`
	CurrentMilestone int       `json:"current_milestone"`
	Timestamp        time.Time `json:"timestamp"`
}

// MessageCreate carries the fields needed to append a message.
type MessageCreate struct {
	UserID           int64
	JourneyID        int64
	Speaker          Speaker
	Content          string
	CurrentMilestone int
}

// JourneyUpdate is a partial journey update: nil fields are left unchanged.
// There is deliberately no way to clear a checkpoint back to null.
type JourneyUpdate struct {
	CurrentMilestone *int
	Status           *JourneyStatus

	Room              *string
	RenovationPurpose *string
	BudgetRange       *string
	Timeline          *string
	StylePreference   *string
	PriorityFeature   *string

	Milestone1Completed   *bool
	Milestone2Completed   *bool
	Milestone3Completed   *bool
	Milestone1CompletedAt *time.Time
	Milestone2CompletedAt *time.Time
	Milestone3CompletedAt *time.Time
}

// SetCheckpoint records a single checkpoint value on the update.
func (u *JourneyUpdate) SetCheckpoint(cp Checkpoint, value string) {
	switch cp {
	case CheckpointRoom:
		u.Room = &value
	case CheckpointRenovationPurpose:
		u.RenovationPurpose = &value
	case CheckpointBudgetRange:
		u.BudgetRange = &value
	case CheckpointTimeline:
		u.Timeline = &value
	case CheckpointStylePreference:
		u.StylePreference = &value
	case CheckpointPriorityFeature:
		u.PriorityFeature = &value
	}
}

// IsEmpty reports whether the update would be a no-op.
func (u *JourneyUpdate) IsEmpty() bool {
	return u.CurrentMilestone == nil && u.Status == nil &&
		u.Room == nil && u.RenovationPurpose == nil &&
		u.BudgetRange == nil && u.Timeline == nil &&
		u.StylePreference == nil && u.PriorityFeature == nil &&
		u.Milestone1Completed == nil && u.Milestone2Completed == nil &&
		u.Milestone3Completed == nil &&
		u.Milestone1CompletedAt == nil && u.Milestone2CompletedAt == nil &&
		u.Milestone3CompletedAt == nil
}

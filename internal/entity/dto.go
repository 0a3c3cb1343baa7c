package entity

import "time"

type CreateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type CreateJourneyRequest struct {
	UserID int64 `json:"user_id"`
}

// UpdateJourneyRequest is the administrative partial update. This path may
// overwrite checkpoint values; the automatic extraction paths never do.
type UpdateJourneyRequest struct {
	CurrentMilestone  *int           `json:"current_milestone,omitempty"`
	Status            *JourneyStatus `json:"status,omitempty"`
	Room              *string        `json:"room,omitempty"`
	RenovationPurpose *string        `json:"renovation_purpose,omitempty"`
	BudgetRange       *string        `json:"budget_range,omitempty"`
	Timeline          *string        `json:"timeline,omitempty"`
	StylePreference   *string        `json:"style_preference,omitempty"`
	PriorityFeature   *string        `json:"priority_feature,omitempty"`
}

type SaveCheckpointRequest struct {
	Value string `json:"value"`
}

type SendMessageRequest struct {
	UserID    int64  `json:"user_id"`
	JourneyID int64  `json:"journey_id"`
	Content   string `json:"content"`
}

// JourneyState is the compact state block returned with every chat turn.
type JourneyState struct {
	Milestone            int           `json:"milestone"`
	CompletedCheckpoints []Checkpoint  `json:"completed_checkpoints"`
	Status               JourneyStatus `json:"status"`
}

// ExtractionOutcome summarizes what the extraction stage did during a turn.
type ExtractionOutcome string

const (
	ExtractionUpdated   ExtractionOutcome = "updated"
	ExtractionUnchanged ExtractionOutcome = "unchanged"
	ExtractionSkipped   ExtractionOutcome = "skipped"
	ExtractionFallback  ExtractionOutcome = "fallback"
)

type ChatResponse struct {
	Message      string            `json:"message"`
	JourneyState JourneyState      `json:"journey_state"`
	Extraction   ExtractionOutcome `json:"extraction"`
}

type StartSessionRequest struct {
	UserID    int64   `json:"user_id"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type SessionResponse struct {
	User           *User     `json:"user"`
	Journey        *Journey  `json:"journey"`
	RecentMessages []Message `json:"recent_messages"`
	Resumed        bool      `json:"resumed"`
}

// JourneyLLMState is the flattened state view handed to prompt builders
// and exposed on the state endpoint.
type JourneyLLMState struct {
	HasJourney           bool          `json:"has_journey"`
	JourneyID            int64         `json:"journey_id,omitempty"`
	Milestone            int           `json:"milestone,omitempty"`
	Status               JourneyStatus `json:"status,omitempty"`
	CompletedCheckpoints []Checkpoint  `json:"completed_checkpoints,omitempty"`
	MilestoneCompleted   bool          `json:"milestone_completed,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ResultFormat selects the plan export format.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

func ParseResultFormat(s string) (ResultFormat, error) {
	switch ResultFormat(s) {
	case FormatMarkdown, FormatPDF, FormatDOCX:
		return ResultFormat(s), nil
	case "":
		return FormatMarkdown, nil
	default:
		return "", ErrInvalidFormat
	}
}

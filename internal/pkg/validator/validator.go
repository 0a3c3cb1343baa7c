package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/homereno/journey-backend/internal/entity"
)

const maxMessageLength = 4000

// Validator validates incoming API requests
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSendMessage validates a chat turn request
func (v *Validator) ValidateSendMessage(req *entity.SendMessageRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}
	if req.JourneyID <= 0 {
		return fmt.Errorf("%w: journey_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content", entity.ErrMissingField)
	}
	if utf8.RuneCountInString(req.Content) > maxMessageLength {
		return fmt.Errorf("%w: content exceeds %d characters", entity.ErrInvalidParameter, maxMessageLength)
	}

	return nil
}

// ValidateCreateJourney validates journey creation
func (v *Validator) ValidateCreateJourney(req *entity.CreateJourneyRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}

	return nil
}

// ValidateSaveCheckpoint validates a checkpoint write
func (v *Validator) ValidateSaveCheckpoint(name string, req *entity.SaveCheckpointRequest) error {
	if _, err := entity.ParseCheckpoint(name); err != nil {
		return err
	}
	if strings.TrimSpace(req.Value) == "" {
		return fmt.Errorf("%w: value", entity.ErrMissingField)
	}

	return nil
}

// ValidateStartSession validates StartSessionRequest
func (v *Validator) ValidateStartSession(req *entity.StartSessionRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}

	return nil
}

// ValidateUpdateJourney rejects updates that carry no fields or
// out-of-range values. Field-level semantics are checked in the usecase.
func (v *Validator) ValidateUpdateJourney(req *entity.UpdateJourneyRequest) error {
	if req.CurrentMilestone == nil && req.Status == nil &&
		req.Room == nil && req.RenovationPurpose == nil &&
		req.BudgetRange == nil && req.Timeline == nil &&
		req.StylePreference == nil && req.PriorityFeature == nil {
		return fmt.Errorf("%w: at least one field required", entity.ErrMissingField)
	}

	return nil
}

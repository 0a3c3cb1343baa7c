package entity

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrJourneyNotFound     = errors.New("journey not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrInvalidCheckpoint   = errors.New("invalid checkpoint name")
	ErrMissingField        = errors.New("missing required field")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrJourneyNotCompleted = errors.New("journey is not completed yet")
	ErrInvalidFormat       = errors.New("invalid export format")
)

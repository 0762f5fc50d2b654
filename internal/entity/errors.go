package entity

import "errors"

// Domain errors
var (
	// Model gateway errors
	ErrModelUnavailable     = errors.New("all candidate models failed")
	ErrTransportInterrupted = errors.New("model stream interrupted")
	ErrConfigurationMissing = errors.New("model provider credential missing")

	// Interview errors
	ErrInterviewNotActive   = errors.New("interview is not active")
	ErrAnswerInFlight       = errors.New("a model call is already in flight")
	ErrForceFinishTooEarly  = errors.New("not enough questions answered to finish early")
	ErrInterviewReset       = errors.New("interview was reset while the model call was in flight")
	ErrNoQuestionPending    = errors.New("no question is pending an answer")
	ErrInterviewNotComplete = errors.New("interview has no completed summary")

	// Archive errors
	ErrEntryNotFound = errors.New("history entry not found")

	// Rendering and delivery errors
	ErrUnsupportedFormat = errors.New("unsupported result format")
	ErrDeliveryFailed    = errors.New("document delivery failed")

	// Validation errors
	ErrMissingField  = errors.New("required field is missing")
	ErrAnswerTooLong = errors.New("answer exceeds maximum length")
)

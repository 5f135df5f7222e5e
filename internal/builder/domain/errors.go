package domain

import (
	"errors"
	"strings"
)

var (
	ErrQuestionNotFound    = errors.New("question not found")
	ErrOptionNotFound      = errors.New("option not found")
	ErrLastOption          = errors.New("question must keep at least one option")
	ErrRemovalDeclined     = errors.New("option removal cancelled")
	ErrFormClosed          = errors.New("form already submitted")
	ErrSubmissionInFlight  = errors.New("form submission in progress")
	ErrInvalidStatus       = errors.New("status must be draft or published")
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrValidation          = errors.New("required fields are empty")
	ErrUnknownAction       = errors.New("unknown action")
)

// ValidationError lists the wire names of required fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

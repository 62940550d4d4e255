package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Quiz engine errors
	CodeInsufficientQuestions ErrorCode = "INSUFFICIENT_QUESTIONS"
	CodeNoActiveSession       ErrorCode = "NO_ACTIVE_SESSION"
	CodeAttemptClosed         ErrorCode = "ATTEMPT_CLOSED"
	CodeInvalidChoice         ErrorCode = "INVALID_CHOICE"
	CodeCategoryNotFound      ErrorCode = "CATEGORY_NOT_FOUND"
	CodeQuestionNotFound      ErrorCode = "QUESTION_NOT_FOUND"
	CodeAttemptNotFound       ErrorCode = "ATTEMPT_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field errors so a request can report all of
// them at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %s", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("value %d must be between %d and %d", value, min, max)}
}

// Helper constructors for common errors

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInsufficientQuestionsError(categoryID string, requested, available int) *DomainError {
	return &DomainError{
		Code:    CodeInsufficientQuestions,
		Message: fmt.Sprintf("category has %d questions, %d requested", available, requested),
		Context: map[string]interface{}{
			"category_id": categoryID,
			"requested":   requested,
			"available":   available,
		},
	}
}

func NewNoActiveSessionError() *DomainError {
	return NewError(CodeNoActiveSession, "No active quiz session", nil)
}

func NewAttemptClosedError(attemptID string) *DomainError {
	return NewError(CodeAttemptClosed, fmt.Sprintf("Attempt already completed: %s", attemptID), nil)
}

func NewInvalidChoiceError(choiceID, questionID string) *DomainError {
	return NewError(CodeInvalidChoice, fmt.Sprintf("Choice %s does not belong to question %s", choiceID, questionID), nil)
}

func NewCategoryNotFoundError(categoryID string) *DomainError {
	return NewError(CodeCategoryNotFound, fmt.Sprintf("Category not found: %s", categoryID), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(CodeQuestionNotFound, fmt.Sprintf("Question not found: %s", questionID), nil)
}

func NewAttemptNotFoundError(attemptID string) *DomainError {
	return NewError(CodeAttemptNotFound, fmt.Sprintf("Attempt not found: %s", attemptID), nil)
}

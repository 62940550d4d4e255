package validation

import (
	"regexp"
	"strings"

	"quiz-engine/internal/domain"
	"quiz-engine/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateStartQuizRequest validates the start quiz request.
// Question count bounds are enforced later against the configured limits.
func (v *Validator) ValidateStartQuizRequest(req *dto.StartQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.CategoryID) == "" {
		errors = append(errors, domain.NewMissingFieldError("category_id"))
	} else if !isValidULID(req.CategoryID) {
		errors = append(errors, domain.NewInvalidFormatError("category_id", req.CategoryID))
	}

	if req.NumQuestions <= 0 {
		errors = append(errors, domain.NewMissingFieldError("num_questions"))
	}

	if req.TimeLimit < 0 {
		errors = append(errors, domain.ValidationError{Field: "time_limit", Message: "must be zero or a positive number of seconds"})
	}

	return errors
}

// ValidateSubmitAnswerRequest validates the submit answer request
func (v *Validator) ValidateSubmitAnswerRequest(req *dto.SubmitAnswerRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.ChoiceID) == "" {
		errors = append(errors, domain.NewMissingFieldError("choice_id"))
	} else if !isValidULID(req.ChoiceID) {
		errors = append(errors, domain.NewInvalidFormatError("choice_id", req.ChoiceID))
	}

	return errors
}

// ValidateAttemptID validates an attempt id path parameter
func (v *Validator) ValidateAttemptID(attemptID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(attemptID) == "" {
		errors = append(errors, domain.NewMissingFieldError("attempt_id"))
	} else if !isValidULID(attemptID) {
		errors = append(errors, domain.NewInvalidFormatError("attempt_id", attemptID))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	// Check if all characters are valid base32 (Crockford's Base32)
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}

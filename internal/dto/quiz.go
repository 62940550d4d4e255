package dto

import "time"

// StartQuizRequest is the request body for starting a quiz
// @Description Category, question count and optional time limit
type StartQuizRequest struct {
	CategoryID   string `json:"category_id"`
	NumQuestions int    `json:"num_questions"`
	TimeLimit    int    `json:"time_limit"` // seconds, 0 = unlimited
}

// ChoiceView is one answer option as shown to the quiz taker.
// Correctness is never exposed here.
type ChoiceView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionView is the current question as shown to the quiz taker
type QuestionView struct {
	QuestionID       string       `json:"question_id"`
	Text             string       `json:"text"`
	Difficulty       string       `json:"difficulty"`
	Choices          []ChoiceView `json:"choices"`
	Position         int          `json:"position"` // 1-based, "n of total"
	TotalQuestions   int          `json:"total_questions"`
	TimeLimit        int          `json:"time_limit"`
	RemainingSeconds int          `json:"remaining_seconds"`
}

// StartQuizResponse returns the session token and the first question
type StartQuizResponse struct {
	Token     string        `json:"token"`
	AttemptID string        `json:"attempt_id"`
	Question  *QuestionView `json:"question"`
}

// CurrentQuestionResponse is a tagged result: either the question at the
// cursor, or Completed with the attempt to fetch results for.
type CurrentQuestionResponse struct {
	Completed bool          `json:"completed"`
	AttemptID string        `json:"attempt_id,omitempty"`
	Question  *QuestionView `json:"question,omitempty"`
}

// SubmitAnswerRequest is the request body for answering the current question
type SubmitAnswerRequest struct {
	ChoiceID string `json:"choice_id"`
}

// SubmitAnswerResponse is a tagged result: the next question, or Completed
// with the attempt to fetch results for.
type SubmitAnswerResponse struct {
	Completed bool          `json:"completed"`
	AttemptID string        `json:"attempt_id,omitempty"`
	Question  *QuestionView `json:"question,omitempty"`
}

// ResponseBreakdown is one row of the per-question results table
type ResponseBreakdown struct {
	QuestionID        string `json:"question_id"`
	QuestionText      string `json:"question_text"`
	Difficulty        string `json:"difficulty"`
	Explanation       string `json:"explanation,omitempty"`
	ChosenChoiceText  string `json:"chosen_choice_text"`
	CorrectChoiceText string `json:"correct_choice_text,omitempty"`
	IsCorrect         bool   `json:"is_correct"`
}

// ResultsResponse is the final score view for an attempt
type ResultsResponse struct {
	AttemptID      string              `json:"attempt_id"`
	CategoryID     string              `json:"category_id"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	Percentage     float64             `json:"percentage"`
	StartedAt      time.Time           `json:"started_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	Responses      []ResponseBreakdown `json:"responses"`
}

// CategoryResponse represents a category in the API response
// @Description Category information with its question count
type CategoryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	QuestionCount int    `json:"question_count"`
}

// CreateCategoryRequest is the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewChoice is one answer option within a create-question request
type NewChoice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// CreateQuestionRequest is the request body for creating a question with
// its choices. At most one choice may be marked correct.
type CreateQuestionRequest struct {
	CategoryID  string      `json:"category_id"`
	Text        string      `json:"text"`
	Difficulty  string      `json:"difficulty"` // easy | medium | hard
	Explanation string      `json:"explanation"`
	Choices     []NewChoice `json:"choices"`
}

// SetCorrectChoiceRequest is the request body for marking a choice correct
type SetCorrectChoiceRequest struct {
	ChoiceID string `json:"choice_id"`
}

// AttemptSummary is one row of an actor's attempt history
type AttemptSummary struct {
	AttemptID      string     `json:"attempt_id"`
	CategoryID     string     `json:"category_id"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	Percentage     float64    `json:"percentage"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// AttemptHistoryResponse lists an actor's attempts, newest first
type AttemptHistoryResponse struct {
	Attempts []AttemptSummary `json:"attempts"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

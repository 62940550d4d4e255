package domain

import "time"

// Attempt is the durable record of one quiz-taking run. It is created once at
// quiz start, mutated only on completion, and never deleted by the engine.
type Attempt struct {
	ID             string
	ActorID        string // empty for anonymous attempts
	CategoryID     string
	StartedAt      time.Time
	CompletedAt    *time.Time
	Score          int
	TotalQuestions int
	TimeLimit      int // seconds, 0 = unlimited
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewAttempt creates a new Attempt instance. TotalQuestions is fixed for the
// lifetime of the attempt.
func NewAttempt(actorID, categoryID string, totalQuestions, timeLimit int) *Attempt {
	now := time.Now()
	return &Attempt{
		ActorID:        actorID,
		CategoryID:     categoryID,
		StartedAt:      now,
		TotalQuestions: totalQuestions,
		TimeLimit:      timeLimit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsComplete reports whether the attempt has reached its terminal state.
func (a *Attempt) IsComplete() bool {
	return a.CompletedAt != nil
}

// TimeRemaining returns the wall-clock seconds left before the attempt
// expires, clamped to zero. Unlimited attempts (TimeLimit == 0) always
// return 0 and never expire.
func (a *Attempt) TimeRemaining(now time.Time) int {
	if a.TimeLimit <= 0 {
		return 0
	}
	remaining := a.TimeLimit - int(now.Sub(a.StartedAt).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether a timed attempt has run out of wall clock.
// Expiry is polled on interaction, never driven by a timer.
func (a *Attempt) IsExpired(now time.Time) bool {
	return a.TimeLimit > 0 && a.TimeRemaining(now) <= 0
}

// ScorePercentage returns the score over the fixed question target.
// An attempt cut short by expiry is still scored against TotalQuestions,
// not the number of responses recorded.
func (a *Attempt) ScorePercentage() float64 {
	if a.TotalQuestions == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalQuestions) * 100
}

// Response is the durable record of one answered question within an attempt.
// IsCorrect is frozen at write time from the chosen choice; later content
// edits do not rewrite history.
type Response struct {
	ID           string
	AttemptID    string
	QuestionID   string
	ChoiceID     string
	IsCorrect    bool
	ResponseTime time.Time
}

// NewResponse creates a Response with correctness taken from the chosen
// choice at this moment.
func NewResponse(attemptID, questionID string, choice *Choice) *Response {
	return &Response{
		AttemptID:    attemptID,
		QuestionID:   questionID,
		ChoiceID:     choice.ID,
		IsCorrect:    choice.IsCorrect,
		ResponseTime: time.Now(),
	}
}

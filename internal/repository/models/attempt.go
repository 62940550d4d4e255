package models

import (
	"database/sql"
	"time"
)

// Attempt row in the attempts table. ActorID is NULL for anonymous attempts.
type Attempt struct {
	ID             string         `db:"id"`
	ActorID        sql.NullString `db:"actor_id"`
	CategoryID     string         `db:"category_id"`
	StartedAt      time.Time      `db:"started_at"`
	CompletedAt    sql.NullTime   `db:"completed_at"`
	Score          int            `db:"score"`
	TotalQuestions int            `db:"total_questions"`
	TimeLimit      int            `db:"time_limit"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// Response row in the responses table.
// (attempt_id, question_id) carries a unique constraint; the adapter leans on
// it to keep duplicate submissions idempotent.
type Response struct {
	ID           string    `db:"id"`
	AttemptID    string    `db:"attempt_id"`
	QuestionID   string    `db:"question_id"`
	ChoiceID     string    `db:"choice_id"`
	IsCorrect    bool      `db:"is_correct"`
	ResponseTime time.Time `db:"response_time"`
}

func (Response) TableName() string {
	return "responses"
}

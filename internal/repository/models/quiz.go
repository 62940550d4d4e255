package models

import (
	"database/sql"
	"time"
)

// Category row in the categories table.
type Category struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   sql.NullTime   `db:"deleted_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Question row in the questions table.
type Question struct {
	ID          string         `db:"id"`
	CategoryID  string         `db:"category_id"`
	Text        string         `db:"text"`
	Difficulty  int            `db:"difficulty"`
	Explanation sql.NullString `db:"explanation"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   sql.NullTime   `db:"deleted_at"`
}

func (Question) TableName() string {
	return "questions"
}

// Choice row in the choices table. IsCorrect is stored as NUMBER(1).
type Choice struct {
	ID         string `db:"id"`
	QuestionID string `db:"question_id"`
	Text       string `db:"text"`
	IsCorrect  bool   `db:"is_correct"`
}

func (Choice) TableName() string {
	return "choices"
}

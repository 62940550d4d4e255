package domain

import (
	"strings"
	"time"
)

// Category represents a quiz category
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory creates a new Category instance
func NewCategory(name, description string) *Category {
	now := time.Now()
	return &Category{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates the category
func (c *Category) Validate() error {
	if c.Name == "" {
		return ValidationErrors{NewMissingFieldError("name")}
	}
	return nil
}

// Question represents a multiple-choice question within a category
type Question struct {
	ID          string
	CategoryID  string
	Text        string
	Difficulty  int // 1: Easy, 2: Medium, 3: Hard
	Explanation string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewQuestion creates a new Question instance
func NewQuestion(categoryID, text string, difficulty int, explanation string) *Question {
	now := time.Now()
	return &Question{
		CategoryID:  categoryID,
		Text:        text,
		Difficulty:  difficulty,
		Explanation: explanation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DifficultyToInt converts a difficulty label to its numeric level
func DifficultyToInt(diff string) int {
	switch strings.ToLower(diff) {
	case "easy":
		return 1
	case "medium":
		return 2
	case "hard":
		return 3
	default:
		return 2
	}
}

func (q *Question) DifficultyToString() string {
	switch q.Difficulty {
	case 1:
		return "easy"
	case 2:
		return "medium"
	case 3:
		return "hard"
	default:
		return "medium"
	}
}

// Validate validates the question
func (q *Question) Validate() error {
	var errs ValidationErrors
	if q.CategoryID == "" {
		errs = append(errs, NewMissingFieldError("category_id"))
	}
	if q.Text == "" {
		errs = append(errs, NewMissingFieldError("text"))
	}
	if q.Difficulty < 1 || q.Difficulty > 3 {
		errs = append(errs, NewOutOfRangeError("difficulty", q.Difficulty, 1, 3))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Choice represents one answer option for a question.
// At most one choice per question carries IsCorrect; the repository enforces
// that at write time (SetCorrectChoice clears siblings in one transaction).
type Choice struct {
	ID         string
	QuestionID string
	Text       string
	IsCorrect  bool
}

// Validate validates the choice
func (c *Choice) Validate() error {
	var errs ValidationErrors
	if c.QuestionID == "" {
		errs = append(errs, NewMissingFieldError("question_id"))
	}
	if c.Text == "" {
		errs = append(errs, NewMissingFieldError("text"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CategoryWithCount pairs a category with its number of questions, for the
// category listing surface.
type CategoryWithCount struct {
	Category
	QuestionCount int
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quiz-engine/internal/domain"
	"quiz-engine/internal/repository/models"
	"quiz-engine/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// GetCategoryByID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	var modelCategory models.Category
	query := `SELECT
		id "id",
		name "name",
		description "description",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"
	FROM categories
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelCategory, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return toDomainCategory(&modelCategory), nil
}

// GetAllCategories implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetAllCategories(ctx context.Context) ([]domain.CategoryWithCount, error) {
	rowsDest := []struct {
		models.Category
		QuestionCount int `db:"question_count"`
	}{}
	query := `SELECT
		c.id "id",
		c.name "name",
		c.description "description",
		c.created_at "created_at",
		c.updated_at "updated_at",
		c.deleted_at "deleted_at",
		COUNT(q.id) "question_count"
	FROM categories c
	LEFT JOIN questions q ON q.category_id = c.id AND q.deleted_at IS NULL
	WHERE c.deleted_at IS NULL
	GROUP BY c.id, c.name, c.description, c.created_at, c.updated_at, c.deleted_at
	ORDER BY c.name ASC`

	err := GetExecutor(ctx, a.db).SelectContext(ctx, &rowsDest, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	categories := make([]domain.CategoryWithCount, 0, len(rowsDest))
	for i := range rowsDest {
		categories = append(categories, domain.CategoryWithCount{
			Category:      *toDomainCategory(&rowsDest[i].Category),
			QuestionCount: rowsDest[i].QuestionCount,
		})
	}
	return categories, nil
}

// GetQuestionIDsByCategory implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetQuestionIDsByCategory(ctx context.Context, categoryID string) ([]string, error) {
	var ids []string
	query := `SELECT id FROM questions WHERE category_id = :1 AND deleted_at IS NULL ORDER BY created_at ASC`

	err := GetExecutor(ctx, a.db).SelectContext(ctx, &ids, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query question ids for category %s: %w", categoryID, err)
	}
	if ids == nil {
		return []string{}, nil
	}
	return ids, nil
}

// GetQuestionByID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	var modelQuestion models.Question
	query := `SELECT
		id "id",
		category_id "category_id",
		text "text",
		difficulty "difficulty",
		explanation "explanation",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"
	FROM questions
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelQuestion, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by ID %s: %w", id, err)
	}
	return toDomainQuestion(&modelQuestion), nil
}

// GetChoicesByQuestionID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetChoicesByQuestionID(ctx context.Context, questionID string) ([]domain.Choice, error) {
	var modelChoices []models.Choice
	query := `SELECT
		id "id",
		question_id "question_id",
		text "text",
		is_correct "is_correct"
	FROM choices
	WHERE question_id = :1
	ORDER BY id ASC`

	err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelChoices, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices for question %s: %w", questionID, err)
	}

	choices := make([]domain.Choice, 0, len(modelChoices))
	for i := range modelChoices {
		choices = append(choices, *toDomainChoice(&modelChoices[i]))
	}
	return choices, nil
}

// GetChoiceByID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetChoiceByID(ctx context.Context, id string) (*domain.Choice, error) {
	var modelChoice models.Choice
	query := `SELECT
		id "id",
		question_id "question_id",
		text "text",
		is_correct "is_correct"
	FROM choices
	WHERE id = :1`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelChoice, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get choice by ID %s: %w", id, err)
	}
	return toDomainChoice(&modelChoice), nil
}

// SaveCategory implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) SaveCategory(ctx context.Context, category *domain.Category) error {
	if category == nil {
		return fmt.Errorf("cannot save nil category")
	}
	category.ID = util.NewULID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt

	query := `INSERT INTO categories (
		id, name, description, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5
	)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		category.ID,
		category.Name,
		util.StringToNullString(category.Description),
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

// SaveQuestion implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) SaveQuestion(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return fmt.Errorf("cannot save nil question")
	}
	question.ID = util.NewULID()
	question.CreatedAt = time.Now()
	question.UpdatedAt = question.CreatedAt

	query := `INSERT INTO questions (
		id, category_id, text, difficulty, explanation, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		question.ID,
		question.CategoryID,
		question.Text,
		question.Difficulty,
		util.StringToNullString(question.Explanation),
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

// SaveChoice implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) SaveChoice(ctx context.Context, choice *domain.Choice) error {
	if choice == nil {
		return fmt.Errorf("cannot save nil choice")
	}
	choice.ID = util.NewULID()

	query := `INSERT INTO choices (
		id, question_id, text, is_correct
	) VALUES (
		:1, :2, :3, :4
	)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		choice.ID,
		choice.QuestionID,
		choice.Text,
		choice.IsCorrect,
	)
	if err != nil {
		return fmt.Errorf("failed to save choice: %w", err)
	}
	return nil
}

// SetCorrectChoice implements domain.QuestionRepository.
// Both statements run against the executor in ctx, so wrapping the call in
// TransactionManager.WithTransaction makes clear-siblings-then-set atomic.
func (a *QuestionDatabaseAdapter) SetCorrectChoice(ctx context.Context, questionID, choiceID string) error {
	exec := GetExecutor(ctx, a.db)

	clearQuery := `UPDATE choices SET is_correct = 0 WHERE question_id = :1 AND is_correct = 1`
	if _, err := exec.ExecContext(ctx, clearQuery, questionID); err != nil {
		return fmt.Errorf("failed to clear correct choices for question %s: %w", questionID, err)
	}

	setQuery := `UPDATE choices SET is_correct = 1 WHERE id = :1 AND question_id = :2`
	result, err := exec.ExecContext(ctx, setQuery, choiceID, questionID)
	if err != nil {
		return fmt.Errorf("failed to set correct choice %s: %w", choiceID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("choice %s not found for question %s", choiceID, questionID)
	}
	return nil
}

// Helper functions for model conversion

func toDomainCategory(m *models.Category) *domain.Category {
	return &domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Text:        m.Text,
		Difficulty:  m.Difficulty,
		Explanation: m.Explanation.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainChoice(m *models.Choice) *domain.Choice {
	return &domain.Choice{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		Text:       m.Text,
		IsCorrect:  m.IsCorrect,
	}
}

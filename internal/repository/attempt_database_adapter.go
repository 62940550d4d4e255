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

// AttemptDatabaseAdapter implements domain.AttemptRepository using sqlx.DB
type AttemptDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAttemptDatabaseAdapter creates a new instance of AttemptDatabaseAdapter
func NewAttemptDatabaseAdapter(db *sqlx.DB) domain.AttemptRepository {
	return &AttemptDatabaseAdapter{db: db}
}

// CreateAttempt implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	if attempt == nil {
		return fmt.Errorf("cannot create nil attempt")
	}
	modelAttempt := fromDomainAttempt(attempt)
	modelAttempt.ID = util.NewULID()
	now := time.Now()
	if modelAttempt.StartedAt.IsZero() {
		modelAttempt.StartedAt = now
	}
	modelAttempt.CreatedAt = now
	modelAttempt.UpdatedAt = now

	query := `INSERT INTO attempts (
		id, actor_id, category_id, started_at, completed_at,
		score, total_questions, time_limit, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10
	)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelAttempt.ID,
		modelAttempt.ActorID,
		modelAttempt.CategoryID,
		modelAttempt.StartedAt,
		modelAttempt.CompletedAt,
		modelAttempt.Score,
		modelAttempt.TotalQuestions,
		modelAttempt.TimeLimit,
		modelAttempt.CreatedAt,
		modelAttempt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	attempt.ID = modelAttempt.ID
	attempt.StartedAt = modelAttempt.StartedAt
	attempt.CreatedAt = modelAttempt.CreatedAt
	attempt.UpdatedAt = modelAttempt.UpdatedAt
	return nil
}

// GetAttemptByID implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) GetAttemptByID(ctx context.Context, id string) (*domain.Attempt, error) {
	var modelAttempt models.Attempt
	query := `SELECT
		id "id",
		actor_id "actor_id",
		category_id "category_id",
		started_at "started_at",
		completed_at "completed_at",
		score "score",
		total_questions "total_questions",
		time_limit "time_limit",
		created_at "created_at",
		updated_at "updated_at"
	FROM attempts
	WHERE id = :1`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelAttempt, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt by ID %s: %w", id, err)
	}
	return toDomainAttempt(&modelAttempt), nil
}

// CompleteAttempt implements domain.AttemptRepository.
// The completed_at IS NULL guard makes completion idempotent at the SQL
// level: a second caller affects zero rows and the stored score stands.
func (a *AttemptDatabaseAdapter) CompleteAttempt(ctx context.Context, id string, completedAt time.Time, score int) (bool, error) {
	query := `UPDATE attempts SET
		completed_at = :1,
		score = :2,
		updated_at = :3
	WHERE id = :4
	AND completed_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, completedAt, score, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to complete attempt %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// GetAttemptsByActor implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) GetAttemptsByActor(ctx context.Context, actorID string) ([]domain.Attempt, error) {
	var modelAttempts []models.Attempt
	query := `SELECT
		id "id",
		actor_id "actor_id",
		category_id "category_id",
		started_at "started_at",
		completed_at "completed_at",
		score "score",
		total_questions "total_questions",
		time_limit "time_limit",
		created_at "created_at",
		updated_at "updated_at"
	FROM attempts
	WHERE actor_id = :1
	ORDER BY started_at DESC`

	err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelAttempts, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts for actor %s: %w", actorID, err)
	}

	attempts := make([]domain.Attempt, 0, len(modelAttempts))
	for i := range modelAttempts {
		attempts = append(attempts, *toDomainAttempt(&modelAttempts[i]))
	}
	return attempts, nil
}

// Helper functions for model conversion

func toDomainAttempt(m *models.Attempt) *domain.Attempt {
	return &domain.Attempt{
		ID:             m.ID,
		ActorID:        m.ActorID.String,
		CategoryID:     m.CategoryID,
		StartedAt:      m.StartedAt,
		CompletedAt:    util.NullTimeToPtr(m.CompletedAt),
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		TimeLimit:      m.TimeLimit,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func fromDomainAttempt(d *domain.Attempt) *models.Attempt {
	var completedAt sql.NullTime
	if d.CompletedAt != nil {
		completedAt = util.TimeToNullTime(*d.CompletedAt)
	}
	return &models.Attempt{
		ID:             d.ID,
		ActorID:        util.StringToNullString(d.ActorID),
		CategoryID:     d.CategoryID,
		StartedAt:      d.StartedAt,
		CompletedAt:    completedAt,
		Score:          d.Score,
		TotalQuestions: d.TotalQuestions,
		TimeLimit:      d.TimeLimit,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

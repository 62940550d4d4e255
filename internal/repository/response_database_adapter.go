package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"quiz-engine/internal/domain"
	"quiz-engine/internal/repository/models"
	"quiz-engine/internal/util"

	"github.com/jmoiron/sqlx"
)

// ResponseDatabaseAdapter implements domain.ResponseRepository using sqlx.DB
type ResponseDatabaseAdapter struct {
	db *sqlx.DB
}

// NewResponseDatabaseAdapter creates a new instance of ResponseDatabaseAdapter
func NewResponseDatabaseAdapter(db *sqlx.DB) domain.ResponseRepository {
	return &ResponseDatabaseAdapter{db: db}
}

// InsertResponseIfAbsent implements domain.ResponseRepository.
// The insert races against the (attempt_id, question_id) unique constraint;
// on conflict the existing row is read back and returned unchanged, so a
// duplicate submission never overwrites the original answer.
func (a *ResponseDatabaseAdapter) InsertResponseIfAbsent(ctx context.Context, response *domain.Response) (*domain.Response, bool, error) {
	if response == nil {
		return nil, false, fmt.Errorf("cannot insert nil response")
	}

	existing, err := a.getByAttemptAndQuestion(ctx, response.AttemptID, response.QuestionID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	modelResponse := fromDomainResponse(response)
	modelResponse.ID = util.NewULID()
	if modelResponse.ResponseTime.IsZero() {
		modelResponse.ResponseTime = time.Now()
	}

	query := `INSERT INTO responses (
		id, attempt_id, question_id, choice_id, is_correct, response_time
	) VALUES (
		:1, :2, :3, :4, :5, :6
	)`

	_, err = GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelResponse.ID,
		modelResponse.AttemptID,
		modelResponse.QuestionID,
		modelResponse.ChoiceID,
		modelResponse.IsCorrect,
		modelResponse.ResponseTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race to a concurrent duplicate; the first write wins.
			existing, rerr := a.getByAttemptAndQuestion(ctx, response.AttemptID, response.QuestionID)
			if rerr != nil {
				return nil, false, rerr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to insert response: %w", err)
	}

	response.ID = modelResponse.ID
	response.ResponseTime = modelResponse.ResponseTime
	return response, true, nil
}

// GetResponsesByAttempt implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) GetResponsesByAttempt(ctx context.Context, attemptID string) ([]domain.Response, error) {
	var modelResponses []models.Response
	query := `SELECT
		id "id",
		attempt_id "attempt_id",
		question_id "question_id",
		choice_id "choice_id",
		is_correct "is_correct",
		response_time "response_time"
	FROM responses
	WHERE attempt_id = :1
	ORDER BY response_time ASC`

	err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelResponses, query, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses for attempt %s: %w", attemptID, err)
	}

	responses := make([]domain.Response, 0, len(modelResponses))
	for i := range modelResponses {
		responses = append(responses, *toDomainResponse(&modelResponses[i]))
	}
	return responses, nil
}

// CountCorrectByAttempt implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) CountCorrectByAttempt(ctx context.Context, attemptID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM responses WHERE attempt_id = :1 AND is_correct = 1`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &count, query, attemptID)
	if err != nil {
		return 0, fmt.Errorf("failed to count correct responses for attempt %s: %w", attemptID, err)
	}
	return count, nil
}

func (a *ResponseDatabaseAdapter) getByAttemptAndQuestion(ctx context.Context, attemptID, questionID string) (*domain.Response, error) {
	var modelResponse models.Response
	query := `SELECT
		id "id",
		attempt_id "attempt_id",
		question_id "question_id",
		choice_id "choice_id",
		is_correct "is_correct",
		response_time "response_time"
	FROM responses
	WHERE attempt_id = :1
	AND question_id = :2`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelResponse, query, attemptID, questionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get response for attempt %s question %s: %w", attemptID, questionID, err)
	}
	return toDomainResponse(&modelResponse), nil
}

// isUniqueViolation reports whether err is an Oracle unique constraint
// violation (ORA-00001).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}

// Helper functions for model conversion

func toDomainResponse(m *models.Response) *domain.Response {
	return &domain.Response{
		ID:           m.ID,
		AttemptID:    m.AttemptID,
		QuestionID:   m.QuestionID,
		ChoiceID:     m.ChoiceID,
		IsCorrect:    m.IsCorrect,
		ResponseTime: m.ResponseTime,
	}
}

func fromDomainResponse(d *domain.Response) *models.Response {
	return &models.Response{
		ID:           d.ID,
		AttemptID:    d.AttemptID,
		QuestionID:   d.QuestionID,
		ChoiceID:     d.ChoiceID,
		IsCorrect:    d.IsCorrect,
		ResponseTime: d.ResponseTime,
	}
}

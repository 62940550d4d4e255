package service

import (
	"context"

	"quiz-engine/internal/domain"
	"quiz-engine/internal/dto"
)

// HistoryService exposes an actor's past attempts.
type HistoryService interface {
	// GetAttemptHistory lists the actor's attempts, newest first.
	GetAttemptHistory(ctx context.Context, actorID string) (*dto.AttemptHistoryResponse, error)
}

// historyService implements HistoryService
type historyService struct {
	attempts domain.AttemptRepository
}

// NewHistoryService creates a new instance of historyService
func NewHistoryService(attempts domain.AttemptRepository) HistoryService {
	return &historyService{attempts: attempts}
}

// GetAttemptHistory implements HistoryService
func (s *historyService) GetAttemptHistory(ctx context.Context, actorID string) (*dto.AttemptHistoryResponse, error) {
	if actorID == "" {
		return nil, domain.NewError(domain.CodeUnauthorized, "Actor identity required", nil)
	}

	attempts, err := s.attempts.GetAttemptsByActor(ctx, actorID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get attempts", err)
	}

	summaries := make([]dto.AttemptSummary, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		summaries = append(summaries, dto.AttemptSummary{
			AttemptID:      a.ID,
			CategoryID:     a.CategoryID,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			Percentage:     a.ScorePercentage(),
			StartedAt:      a.StartedAt,
			CompletedAt:    a.CompletedAt,
		})
	}

	return &dto.AttemptHistoryResponse{Attempts: summaries}, nil
}

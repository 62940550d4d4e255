package service

import (
	"context"
	"math/rand"
	"sync"

	"quiz-engine/internal/config"
	"quiz-engine/internal/domain"
)

// Selector draws a uniform random sample of question ids from a category.
// The RNG is injected so the draw is deterministic under test; the draw
// order becomes the presentation order for the whole attempt.
type Selector struct {
	repo domain.QuestionRepository
	cfg  config.QuizConfig

	// rand.Rand is not safe for concurrent use
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a Selector bounded by cfg and driven by rng.
func NewSelector(repo domain.QuestionRepository, cfg config.QuizConfig, rng *rand.Rand) *Selector {
	return &Selector{repo: repo, cfg: cfg, rng: rng}
}

// SelectQuestions returns count distinct question ids from the category,
// sampled without replacement. A category with fewer than count questions is
// a validation failure, never a silent truncation.
func (s *Selector) SelectQuestions(ctx context.Context, categoryID string, count int) ([]string, error) {
	if count < s.cfg.MinQuestions || count > s.cfg.MaxQuestions {
		return nil, domain.ValidationErrors{
			domain.NewOutOfRangeError("num_questions", count, s.cfg.MinQuestions, s.cfg.MaxQuestions),
		}
	}

	ids, err := s.repo.GetQuestionIDsByCategory(ctx, categoryID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list category questions", err)
	}
	if len(ids) < count {
		return nil, domain.NewInsufficientQuestionsError(categoryID, count, len(ids))
	}

	sampled := append([]string(nil), ids...)
	s.mu.Lock()
	s.rng.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})
	s.mu.Unlock()

	return sampled[:count], nil
}

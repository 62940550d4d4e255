package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"quiz-engine/internal/config"
	"quiz-engine/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testQuizConfig() config.QuizConfig {
	return config.QuizConfig{MinQuestions: 5, MaxQuestions: 20}
}

func questionIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("q-%02d", i)
	}
	return ids
}

func TestSelectQuestions_DistinctSample(t *testing.T) {
	repo := new(MockQuestionRepository)
	repo.On("GetQuestionIDsByCategory", context.Background(), "cat-1").Return(questionIDs(10), nil)

	selector := NewSelector(repo, testQuizConfig(), rand.New(rand.NewSource(1)))

	sampled, err := selector.SelectQuestions(context.Background(), "cat-1", 5)
	assert.NoError(t, err)
	assert.Len(t, sampled, 5)

	seen := make(map[string]bool)
	for _, id := range sampled {
		assert.False(t, seen[id], "question %s drawn twice", id)
		seen[id] = true
	}
	repo.AssertExpectations(t)
}

func TestSelectQuestions_DeterministicForSeed(t *testing.T) {
	repo := new(MockQuestionRepository)
	repo.On("GetQuestionIDsByCategory", context.Background(), "cat-1").Return(questionIDs(12), nil)

	first, err := NewSelector(repo, testQuizConfig(), rand.New(rand.NewSource(42))).
		SelectQuestions(context.Background(), "cat-1", 8)
	assert.NoError(t, err)

	second, err := NewSelector(repo, testQuizConfig(), rand.New(rand.NewSource(42))).
		SelectQuestions(context.Background(), "cat-1", 8)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSelectQuestions_InsufficientQuestions(t *testing.T) {
	repo := new(MockQuestionRepository)
	repo.On("GetQuestionIDsByCategory", context.Background(), "cat-1").Return(questionIDs(8), nil)

	selector := NewSelector(repo, config.QuizConfig{MinQuestions: 5, MaxQuestions: 30}, rand.New(rand.NewSource(1)))

	_, err := selector.SelectQuestions(context.Background(), "cat-1", 25)
	assert.Error(t, err)

	var domainErr *domain.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInsufficientQuestions, domainErr.Code)
	assert.Equal(t, 25, domainErr.Context["requested"])
	assert.Equal(t, 8, domainErr.Context["available"])
}

func TestSelectQuestions_CountOutOfBounds(t *testing.T) {
	repo := new(MockQuestionRepository)
	selector := NewSelector(repo, testQuizConfig(), rand.New(rand.NewSource(1)))

	for _, count := range []int{0, 4, 21, -3} {
		_, err := selector.SelectQuestions(context.Background(), "cat-1", count)
		assert.Error(t, err, "count %d should be rejected", count)

		var validationErrs domain.ValidationErrors
		assert.True(t, errors.As(err, &validationErrs))
	}

	// The repository is never consulted for an invalid count
	repo.AssertNotCalled(t, "GetQuestionIDsByCategory")
}

func TestSelectQuestions_SourceUnmodified(t *testing.T) {
	ids := questionIDs(10)
	original := append([]string(nil), ids...)

	repo := new(MockQuestionRepository)
	repo.On("GetQuestionIDsByCategory", context.Background(), "cat-1").Return(ids, nil)

	selector := NewSelector(repo, testQuizConfig(), rand.New(rand.NewSource(7)))
	_, err := selector.SelectQuestions(context.Background(), "cat-1", 10)
	assert.NoError(t, err)
	assert.Equal(t, original, ids)
}

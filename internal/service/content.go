package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-engine/internal/cache"
	"quiz-engine/internal/domain"
	"quiz-engine/internal/dto"
	"quiz-engine/internal/logger"

	"go.uber.org/zap"
)

const categoryListCacheTTL = 10 * time.Minute

// ContentService manages categories, questions and choices.
type ContentService interface {
	// GetCategories lists every category with its question count.
	GetCategories(ctx context.Context) ([]dto.CategoryResponse, error)

	// CreateCategory creates a category with a unique name.
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)

	// CreateQuestion creates a question together with its choices.
	// At most one choice may be marked correct.
	CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (string, error)

	// SetCorrectChoice marks one choice correct and clears its siblings.
	// Responses already recorded keep their frozen correctness.
	SetCorrectChoice(ctx context.Context, questionID, choiceID string) error
}

// contentService implements ContentService
type contentService struct {
	questions  domain.QuestionRepository
	cacheStore domain.Cache
	txManager  domain.TransactionManager
}

// NewContentService creates a new instance of contentService
func NewContentService(
	questions domain.QuestionRepository,
	cacheStore domain.Cache,
	txManager domain.TransactionManager,
) ContentService {
	return &contentService{
		questions:  questions,
		cacheStore: cacheStore,
		txManager:  txManager,
	}
}

func (s *contentService) categoryListCacheKey() string {
	return cache.GenerateCacheKey("content", "categories", "all")
}

// GetCategories implements ContentService
func (s *contentService) GetCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cacheKey := s.categoryListCacheKey()

	if s.cacheStore != nil {
		cached, err := s.cacheStore.Get(ctx, cacheKey)
		if err == nil {
			var out []dto.CategoryResponse
			if jsonErr := json.Unmarshal([]byte(cached), &out); jsonErr == nil {
				return out, nil
			}
			logger.Get().Warn("Failed to unmarshal cached categories", zap.String("key", cacheKey))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Cache get failed for categories", zap.Error(err))
		}
	}

	categories, err := s.questions.GetAllCategories(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get categories", err)
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{
			ID:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			QuestionCount: c.QuestionCount,
		})
	}

	if s.cacheStore != nil {
		if payload, err := json.Marshal(out); err == nil {
			if err := s.cacheStore.Set(ctx, cacheKey, string(payload), categoryListCacheTTL); err != nil {
				logger.Get().Warn("Cache set failed for categories", zap.Error(err))
			}
		}
	}

	return out, nil
}

// CreateCategory implements ContentService
func (s *contentService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := domain.NewCategory(req.Name, req.Description)
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.questions.SaveCategory(ctx, category); err != nil {
		return nil, domain.NewInternalError("Failed to save category", err)
	}

	s.invalidateCategoryList(ctx)

	logger.Get().Info("Category created",
		zap.String("category_id", category.ID),
		zap.String("name", category.Name),
	)

	return &dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}, nil
}

// CreateQuestion implements ContentService
func (s *contentService) CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (string, error) {
	question := domain.NewQuestion(req.CategoryID, req.Text, domain.DifficultyToInt(req.Difficulty), req.Explanation)
	if err := question.Validate(); err != nil {
		return "", err
	}

	var errs domain.ValidationErrors
	if len(req.Choices) < 2 {
		errs = append(errs, domain.ValidationError{Field: "choices", Message: "at least two choices are required"})
	}
	correct := 0
	for _, c := range req.Choices {
		if c.Text == "" {
			errs = append(errs, domain.NewMissingFieldError("choices.text"))
		}
		if c.IsCorrect {
			correct++
		}
	}
	if correct > 1 {
		errs = append(errs, domain.ValidationError{Field: "choices", Message: "at most one choice may be marked correct"})
	}
	if len(errs) > 0 {
		return "", errs
	}

	category, err := s.questions.GetCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return "", domain.NewInternalError("Failed to get category", err)
	}
	if category == nil {
		return "", domain.NewCategoryNotFoundError(req.CategoryID)
	}

	// The question and its choices land together or not at all.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.questions.SaveQuestion(txCtx, question); err != nil {
			return err
		}
		for _, c := range req.Choices {
			choice := &domain.Choice{
				QuestionID: question.ID,
				Text:       c.Text,
				IsCorrect:  c.IsCorrect,
			}
			if err := s.questions.SaveChoice(txCtx, choice); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", domain.NewInternalError("Failed to save question", err)
	}

	s.invalidateCategoryList(ctx)

	logger.Get().Info("Question created",
		zap.String("question_id", question.ID),
		zap.String("category_id", question.CategoryID),
		zap.Int("choices", len(req.Choices)),
	)

	return question.ID, nil
}

// SetCorrectChoice implements ContentService
func (s *contentService) SetCorrectChoice(ctx context.Context, questionID, choiceID string) error {
	question, err := s.questions.GetQuestionByID(ctx, questionID)
	if err != nil {
		return domain.NewInternalError("Failed to get question", err)
	}
	if question == nil {
		return domain.NewQuestionNotFoundError(questionID)
	}

	choice, err := s.questions.GetChoiceByID(ctx, choiceID)
	if err != nil {
		return domain.NewInternalError("Failed to get choice", err)
	}
	if choice == nil || choice.QuestionID != questionID {
		return domain.NewInvalidChoiceError(choiceID, questionID)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.questions.SetCorrectChoice(txCtx, questionID, choiceID)
	})
	if err != nil {
		return domain.NewInternalError("Failed to set correct choice", err)
	}

	logger.Get().Info("Correct choice updated",
		zap.String("question_id", questionID),
		zap.String("choice_id", choiceID),
	)
	return nil
}

func (s *contentService) invalidateCategoryList(ctx context.Context) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.Delete(ctx, s.categoryListCacheKey()); err != nil {
		logger.Get().Warn("Failed to invalidate category cache", zap.Error(err))
	}
}

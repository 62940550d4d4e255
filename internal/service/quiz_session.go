package service

import (
	"context"
	"errors"
	"time"

	"quiz-engine/internal/domain"
	"quiz-engine/internal/dto"
	"quiz-engine/internal/logger"
	"quiz-engine/internal/util"

	"go.uber.org/zap"
)

// QuizSessionService is the engine that turns a one-shot start request into
// a multi-step, resumable interaction over a persisted attempt.
type QuizSessionService interface {
	// StartQuiz validates the request, creates the attempt and the session,
	// and returns the first question. Validation failures create neither.
	StartQuiz(ctx context.Context, actorID string, req *dto.StartQuizRequest) (*dto.StartQuizResponse, error)

	// GetCurrentQuestion returns the question at the session cursor, or a
	// Completed result once the attempt is finished or expired.
	GetCurrentQuestion(ctx context.Context, token string) (*dto.CurrentQuestionResponse, error)

	// SubmitAnswer records the answer for the current question and advances
	// the cursor. Duplicate submissions are idempotent.
	SubmitAnswer(ctx context.Context, token string, choiceID string) (*dto.SubmitAnswerResponse, error)

	// GetResults returns the score and per-question breakdown for an attempt.
	GetResults(ctx context.Context, attemptID string) (*dto.ResultsResponse, error)
}

// quizSessionService implements QuizSessionService
type quizSessionService struct {
	questions domain.QuestionRepository
	attempts  domain.AttemptRepository
	responses domain.ResponseRepository
	sessions  domain.SessionStore
	selector  *Selector
	txManager domain.TransactionManager
	now       func() time.Time
}

// NewQuizSessionService creates a new instance of quizSessionService
func NewQuizSessionService(
	questions domain.QuestionRepository,
	attempts domain.AttemptRepository,
	responses domain.ResponseRepository,
	sessions domain.SessionStore,
	selector *Selector,
	txManager domain.TransactionManager,
) QuizSessionService {
	return &quizSessionService{
		questions: questions,
		attempts:  attempts,
		responses: responses,
		sessions:  sessions,
		selector:  selector,
		txManager: txManager,
		now:       time.Now,
	}
}

// StartQuiz implements QuizSessionService
func (s *quizSessionService) StartQuiz(ctx context.Context, actorID string, req *dto.StartQuizRequest) (*dto.StartQuizResponse, error) {
	if req.TimeLimit < 0 {
		return nil, domain.ValidationErrors{
			domain.ValidationError{Field: "time_limit", Message: "must be zero or a positive number of seconds"},
		}
	}

	category, err := s.questions.GetCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get category", err)
	}
	if category == nil {
		return nil, domain.NewCategoryNotFoundError(req.CategoryID)
	}

	// Validation happens before any write: a rejected start leaves no
	// attempt row and no session behind.
	questionIDs, err := s.selector.SelectQuestions(ctx, req.CategoryID, req.NumQuestions)
	if err != nil {
		return nil, err
	}

	attempt := domain.NewAttempt(actorID, req.CategoryID, req.NumQuestions, req.TimeLimit)
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("Failed to create attempt", err)
	}

	token := util.NewULID()
	state := &domain.SessionState{
		AttemptID:   attempt.ID,
		QuestionIDs: questionIDs,
		Cursor:      0,
	}
	if err := s.sessions.Save(ctx, token, state); err != nil {
		return nil, domain.NewInternalError("Failed to save session state", err)
	}

	question, err := s.buildQuestionView(ctx, attempt, state)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz started",
		zap.String("attempt_id", attempt.ID),
		zap.String("category_id", req.CategoryID),
		zap.Int("total_questions", req.NumQuestions),
		zap.Int("time_limit", req.TimeLimit),
		zap.Bool("anonymous", actorID == ""),
	)

	return &dto.StartQuizResponse{
		Token:     token,
		AttemptID: attempt.ID,
		Question:  question,
	}, nil
}

// GetCurrentQuestion implements QuizSessionService
func (s *quizSessionService) GetCurrentQuestion(ctx context.Context, token string) (*dto.CurrentQuestionResponse, error) {
	state, attempt, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}

	// Expiry is polled on every interaction, never by a timer.
	if attempt.IsComplete() || attempt.IsExpired(s.now()) || state.Exhausted() {
		if err := s.finalize(ctx, attempt, token); err != nil {
			return nil, err
		}
		return &dto.CurrentQuestionResponse{Completed: true, AttemptID: attempt.ID}, nil
	}

	question, err := s.buildQuestionView(ctx, attempt, state)
	if err != nil {
		return nil, err
	}
	return &dto.CurrentQuestionResponse{Question: question}, nil
}

// SubmitAnswer implements QuizSessionService
func (s *quizSessionService) SubmitAnswer(ctx context.Context, token string, choiceID string) (*dto.SubmitAnswerResponse, error) {
	if choiceID == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("choice_id")}
	}

	state, attempt, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if attempt.IsComplete() {
		if err := s.sessions.Delete(ctx, token); err != nil {
			logger.Get().Warn("Failed to delete stale session", zap.Error(err), zap.String("attempt_id", attempt.ID))
		}
		return nil, domain.NewAttemptClosedError(attempt.ID)
	}

	if attempt.IsExpired(s.now()) || state.Exhausted() {
		if err := s.finalize(ctx, attempt, token); err != nil {
			return nil, err
		}
		return &dto.SubmitAnswerResponse{Completed: true, AttemptID: attempt.ID}, nil
	}

	currentID, _, _ := state.Current()

	choice, err := s.questions.GetChoiceByID(ctx, choiceID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get choice", err)
	}
	if choice == nil {
		return nil, domain.NewInvalidChoiceError(choiceID, currentID)
	}

	// A retried request may carry a choice for a question the cursor has
	// already passed; that is a duplicate, not an error, and must not skip
	// a question. A choice for a question outside the drawn sequence, or
	// ahead of the cursor, is rejected.
	targetIndex := indexOf(state.QuestionIDs, choice.QuestionID)
	if targetIndex == -1 || targetIndex > state.Cursor {
		return nil, domain.NewInvalidChoiceError(choiceID, currentID)
	}

	// Correctness is frozen here, from the choice as it stands right now.
	// Content edits after this write do not rewrite history.
	response := domain.NewResponse(attempt.ID, choice.QuestionID, choice)
	var created bool
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		_, c, err := s.responses.InsertResponseIfAbsent(txCtx, response)
		created = c
		return err
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to record response", err)
	}

	// Advance only after the response write is durable, and only when this
	// request answered the question at the cursor. The response uniqueness
	// key is the deduplication point, not session mutation order.
	if targetIndex == state.Cursor {
		state.Advance()
		if err := s.sessions.Save(ctx, token, state); err != nil {
			return nil, domain.NewInternalError("Failed to save session state", err)
		}
	}

	if !created {
		logger.Get().Debug("Duplicate answer ignored",
			zap.String("attempt_id", attempt.ID),
			zap.String("question_id", choice.QuestionID),
		)
	}

	if state.Exhausted() {
		if err := s.finalize(ctx, attempt, token); err != nil {
			return nil, err
		}
		return &dto.SubmitAnswerResponse{Completed: true, AttemptID: attempt.ID}, nil
	}

	question, err := s.buildQuestionView(ctx, attempt, state)
	if err != nil {
		return nil, err
	}
	return &dto.SubmitAnswerResponse{Question: question}, nil
}

// GetResults implements QuizSessionService
func (s *quizSessionService) GetResults(ctx context.Context, attemptID string) (*dto.ResultsResponse, error) {
	attempt, err := s.attempts.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}

	responses, err := s.responses.GetResponsesByAttempt(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get responses", err)
	}

	breakdown := make([]dto.ResponseBreakdown, 0, len(responses))
	for i := range responses {
		row, err := s.buildBreakdownRow(ctx, &responses[i])
		if err != nil {
			return nil, err
		}
		breakdown = append(breakdown, *row)
	}

	return &dto.ResultsResponse{
		AttemptID:      attempt.ID,
		CategoryID:     attempt.CategoryID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.ScorePercentage(),
		StartedAt:      attempt.StartedAt,
		CompletedAt:    attempt.CompletedAt,
		Responses:      breakdown,
	}, nil
}

// loadSession resolves a token to its state and attempt. A missing token,
// or a session pointing at a vanished attempt, is NO_ACTIVE_SESSION.
func (s *quizSessionService) loadSession(ctx context.Context, token string) (*domain.SessionState, *domain.Attempt, error) {
	if token == "" {
		return nil, nil, domain.NewNoActiveSessionError()
	}
	state, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, domain.NewNoActiveSessionError()
		}
		return nil, nil, domain.NewInternalError("Failed to load session state", err)
	}

	attempt, err := s.attempts.GetAttemptByID(ctx, state.AttemptID)
	if err != nil {
		return nil, nil, domain.NewInternalError("Failed to get attempt", err)
	}
	if attempt == nil {
		if derr := s.sessions.Delete(ctx, token); derr != nil {
			logger.Get().Warn("Failed to delete orphaned session", zap.Error(derr))
		}
		return nil, nil, domain.NewNoActiveSessionError()
	}
	return state, attempt, nil
}

// finalize closes the attempt with whatever responses exist and discards the
// session. Completion is idempotent: losing the CompleteAttempt race leaves
// the first writer's score in place.
func (s *quizSessionService) finalize(ctx context.Context, attempt *domain.Attempt, token string) error {
	if !attempt.IsComplete() {
		score, err := s.responses.CountCorrectByAttempt(ctx, attempt.ID)
		if err != nil {
			return domain.NewInternalError("Failed to count correct responses", err)
		}

		completedAt := s.now()
		closed, err := s.attempts.CompleteAttempt(ctx, attempt.ID, completedAt, score)
		if err != nil {
			return domain.NewInternalError("Failed to complete attempt", err)
		}
		if closed {
			attempt.CompletedAt = &completedAt
			attempt.Score = score
			logger.Get().Info("Attempt completed",
				zap.String("attempt_id", attempt.ID),
				zap.Int("score", score),
				zap.Int("total_questions", attempt.TotalQuestions),
			)
		} else {
			// Someone else completed it first; reload the stored score.
			stored, err := s.attempts.GetAttemptByID(ctx, attempt.ID)
			if err != nil {
				return domain.NewInternalError("Failed to reload attempt", err)
			}
			if stored != nil {
				*attempt = *stored
			}
		}
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		logger.Get().Warn("Failed to delete session after completion",
			zap.Error(err), zap.String("attempt_id", attempt.ID))
	}
	return nil
}

// buildQuestionView loads the question at the cursor with its choices.
// Choice correctness never leaves the service.
func (s *quizSessionService) buildQuestionView(ctx context.Context, attempt *domain.Attempt, state *domain.SessionState) (*dto.QuestionView, error) {
	questionID, index, ok := state.Current()
	if !ok {
		return nil, domain.NewInternalError("Session cursor out of range", nil)
	}

	question, err := s.questions.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question", err)
	}
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(questionID)
	}

	choices, err := s.questions.GetChoicesByQuestionID(ctx, questionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get choices", err)
	}

	choiceViews := make([]dto.ChoiceView, 0, len(choices))
	for _, c := range choices {
		choiceViews = append(choiceViews, dto.ChoiceView{ID: c.ID, Text: c.Text})
	}

	return &dto.QuestionView{
		QuestionID:       question.ID,
		Text:             question.Text,
		Difficulty:       question.DifficultyToString(),
		Choices:          choiceViews,
		Position:         index + 1,
		TotalQuestions:   len(state.QuestionIDs),
		TimeLimit:        attempt.TimeLimit,
		RemainingSeconds: attempt.TimeRemaining(s.now()),
	}, nil
}

func (s *quizSessionService) buildBreakdownRow(ctx context.Context, response *domain.Response) (*dto.ResponseBreakdown, error) {
	question, err := s.questions.GetQuestionByID(ctx, response.QuestionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question", err)
	}
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(response.QuestionID)
	}

	choices, err := s.questions.GetChoicesByQuestionID(ctx, response.QuestionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get choices", err)
	}

	row := &dto.ResponseBreakdown{
		QuestionID:   question.ID,
		QuestionText: question.Text,
		Difficulty:   question.DifficultyToString(),
		Explanation:  question.Explanation,
		IsCorrect:    response.IsCorrect,
	}
	for _, c := range choices {
		if c.ID == response.ChoiceID {
			row.ChosenChoiceText = c.Text
		}
		if c.IsCorrect {
			row.CorrectChoiceText = c.Text
		}
	}
	return row, nil
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

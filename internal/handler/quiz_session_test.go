package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-engine/internal/config"
	"quiz-engine/internal/domain"
	"quiz-engine/internal/dto"
	"quiz-engine/internal/handler"
	"quiz-engine/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validULID = "01HZXW8Y9ZABCDEFGHJKMNPQRS"

// --- Manual Mocks ---

type MockQuizSessionService struct {
	StartQuizFunc          func(ctx context.Context, actorID string, req *dto.StartQuizRequest) (*dto.StartQuizResponse, error)
	GetCurrentQuestionFunc func(ctx context.Context, token string) (*dto.CurrentQuestionResponse, error)
	SubmitAnswerFunc       func(ctx context.Context, token string, choiceID string) (*dto.SubmitAnswerResponse, error)
	GetResultsFunc         func(ctx context.Context, attemptID string) (*dto.ResultsResponse, error)
}

func (m *MockQuizSessionService) StartQuiz(ctx context.Context, actorID string, req *dto.StartQuizRequest) (*dto.StartQuizResponse, error) {
	if m.StartQuizFunc != nil {
		return m.StartQuizFunc(ctx, actorID, req)
	}
	panic("MockQuizSessionService.StartQuizFunc not implemented")
}
func (m *MockQuizSessionService) GetCurrentQuestion(ctx context.Context, token string) (*dto.CurrentQuestionResponse, error) {
	if m.GetCurrentQuestionFunc != nil {
		return m.GetCurrentQuestionFunc(ctx, token)
	}
	panic("MockQuizSessionService.GetCurrentQuestionFunc not implemented")
}
func (m *MockQuizSessionService) SubmitAnswer(ctx context.Context, token string, choiceID string) (*dto.SubmitAnswerResponse, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, token, choiceID)
	}
	panic("MockQuizSessionService.SubmitAnswerFunc not implemented")
}
func (m *MockQuizSessionService) GetResults(ctx context.Context, attemptID string) (*dto.ResultsResponse, error) {
	if m.GetResultsFunc != nil {
		return m.GetResultsFunc(ctx, attemptID)
	}
	panic("MockQuizSessionService.GetResultsFunc not implemented")
}

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{TTL: 2 * time.Hour, CookieName: "quiz_session"}
}

func setupApp(svc *MockQuizSessionService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewQuizSessionHandler(svc, sessionConfig())

	app.Post("/api/quiz/start", h.StartQuiz)
	app.Get("/api/quiz/question", h.GetCurrentQuestion)
	app.Post("/api/quiz/answer", h.SubmitAnswer)
	app.Get("/api/quiz/results/:attemptId", h.GetResults)
	return app
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "quiz_session" {
			return c
		}
	}
	return nil
}

func TestStartQuizHandler(t *testing.T) {
	svc := &MockQuizSessionService{
		StartQuizFunc: func(_ context.Context, actorID string, req *dto.StartQuizRequest) (*dto.StartQuizResponse, error) {
			assert.Empty(t, actorID)
			assert.Equal(t, 5, req.NumQuestions)
			return &dto.StartQuizResponse{
				Token:     "token-abc",
				AttemptID: "attempt-1",
				Question: &dto.QuestionView{
					QuestionID:     "q1",
					Text:           "First question",
					Position:       1,
					TotalQuestions: 5,
				},
			}, nil
		},
	}
	app := setupApp(svc)

	body, _ := json.Marshal(dto.StartQuizRequest{CategoryID: validULID, NumQuestions: 5})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/start", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "the session token travels in a cookie")
	assert.Equal(t, "token-abc", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var parsed dto.StartQuizResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "attempt-1", parsed.AttemptID)
	assert.Equal(t, 1, parsed.Question.Position)
}

func TestStartQuizHandler_ValidationFailure(t *testing.T) {
	app := setupApp(&MockQuizSessionService{})

	body, _ := json.Marshal(dto.StartQuizRequest{NumQuestions: 5}) // no category
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/start", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStartQuizHandler_InsufficientQuestions(t *testing.T) {
	svc := &MockQuizSessionService{
		StartQuizFunc: func(_ context.Context, _ string, _ *dto.StartQuizRequest) (*dto.StartQuizResponse, error) {
			return nil, domain.NewInsufficientQuestionsError(validULID, 15, 8)
		},
	}
	app := setupApp(svc)

	body, _ := json.Marshal(dto.StartQuizRequest{CategoryID: validULID, NumQuestions: 15})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/start", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var parsed middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, string(domain.CodeInsufficientQuestions), parsed.Code)
	assert.EqualValues(t, 15, parsed.Details["requested"])
	assert.EqualValues(t, 8, parsed.Details["available"])
}

func TestGetCurrentQuestionHandler_UsesCookieToken(t *testing.T) {
	svc := &MockQuizSessionService{
		GetCurrentQuestionFunc: func(_ context.Context, token string) (*dto.CurrentQuestionResponse, error) {
			assert.Equal(t, "token-abc", token)
			return &dto.CurrentQuestionResponse{
				Question: &dto.QuestionView{QuestionID: "q2", Position: 2, TotalQuestions: 5},
			}, nil
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/question", nil)
	req.AddCookie(&http.Cookie{Name: "quiz_session", Value: "token-abc"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetCurrentQuestionHandler_HeaderFallback(t *testing.T) {
	svc := &MockQuizSessionService{
		GetCurrentQuestionFunc: func(_ context.Context, token string) (*dto.CurrentQuestionResponse, error) {
			assert.Equal(t, "token-header", token)
			return &dto.CurrentQuestionResponse{Completed: true, AttemptID: "attempt-1"}, nil
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/question", nil)
	req.Header.Set(handler.SessionTokenHeader, "token-header")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed dto.CurrentQuestionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.True(t, parsed.Completed)
	assert.Equal(t, "attempt-1", parsed.AttemptID)
}

func TestGetCurrentQuestionHandler_NoSessionIsGone(t *testing.T) {
	svc := &MockQuizSessionService{
		GetCurrentQuestionFunc: func(_ context.Context, _ string) (*dto.CurrentQuestionResponse, error) {
			return nil, domain.NewNoActiveSessionError()
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/question", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestSubmitAnswerHandler(t *testing.T) {
	svc := &MockQuizSessionService{
		SubmitAnswerFunc: func(_ context.Context, token string, choiceID string) (*dto.SubmitAnswerResponse, error) {
			assert.Equal(t, "token-abc", token)
			assert.Equal(t, validULID, choiceID)
			return &dto.SubmitAnswerResponse{Completed: true, AttemptID: "attempt-1"}, nil
		},
	}
	app := setupApp(svc)

	body, _ := json.Marshal(dto.SubmitAnswerRequest{ChoiceID: validULID})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/answer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "quiz_session", Value: "token-abc"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Completion clears the cookie
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestSubmitAnswerHandler_MalformedChoice(t *testing.T) {
	app := setupApp(&MockQuizSessionService{})

	body, _ := json.Marshal(dto.SubmitAnswerRequest{ChoiceID: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/answer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetResultsHandler(t *testing.T) {
	svc := &MockQuizSessionService{
		GetResultsFunc: func(_ context.Context, attemptID string) (*dto.ResultsResponse, error) {
			assert.Equal(t, validULID, attemptID)
			return &dto.ResultsResponse{
				AttemptID:      attemptID,
				Score:          3,
				TotalQuestions: 5,
				Percentage:     60,
			}, nil
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/results/"+validULID, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed dto.ResultsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, 3, parsed.Score)
	assert.InDelta(t, 60.0, parsed.Percentage, 0.0001)
}

func TestGetResultsHandler_NotFound(t *testing.T) {
	svc := &MockQuizSessionService{
		GetResultsFunc: func(_ context.Context, attemptID string) (*dto.ResultsResponse, error) {
			return nil, domain.NewAttemptNotFoundError(attemptID)
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/results/"+validULID, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

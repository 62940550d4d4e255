package handler

import (
	"time"

	"quiz-engine/internal/config"
	"quiz-engine/internal/dto"
	"quiz-engine/internal/logger"
	"quiz-engine/internal/middleware"
	"quiz-engine/internal/service"
	"quiz-engine/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionTokenHeader lets non-browser clients carry the session token
// without cookies.
const SessionTokenHeader = "X-Session-Token"

// QuizSessionHandler handles the quiz-taking HTTP surface
type QuizSessionHandler struct {
	service   service.QuizSessionService
	validator *validation.Validator
	session   config.SessionConfig
}

// NewQuizSessionHandler creates a new QuizSessionHandler instance
func NewQuizSessionHandler(svc service.QuizSessionService, sessionCfg config.SessionConfig) *QuizSessionHandler {
	return &QuizSessionHandler{
		service:   svc,
		validator: validation.NewValidator(),
		session:   sessionCfg,
	}
}

// StartQuiz handles POST /api/quiz/start
func (h *QuizSessionHandler) StartQuiz(c *fiber.Ctx) error {
	var req dto.StartQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if errs := h.validator.ValidateStartQuizRequest(&req); len(errs) > 0 {
		return errs
	}

	actorID := middleware.GetActorID(c)
	resp, err := h.service.StartQuiz(c.Context(), actorID, &req)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCurrentQuestion handles GET /api/quiz/question
func (h *QuizSessionHandler) GetCurrentQuestion(c *fiber.Ctx) error {
	token := h.sessionToken(c)

	resp, err := h.service.GetCurrentQuestion(c.Context(), token)
	if err != nil {
		return err
	}

	if resp.Completed {
		h.clearSessionCookie(c)
	}
	return c.JSON(resp)
}

// SubmitAnswer handles POST /api/quiz/answer
func (h *QuizSessionHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if errs := h.validator.ValidateSubmitAnswerRequest(&req); len(errs) > 0 {
		return errs
	}

	token := h.sessionToken(c)
	resp, err := h.service.SubmitAnswer(c.Context(), token, req.ChoiceID)
	if err != nil {
		return err
	}

	if resp.Completed {
		h.clearSessionCookie(c)
		logger.Get().Debug("Session closed after final answer", zap.String("attempt_id", resp.AttemptID))
	}
	return c.JSON(resp)
}

// GetResults handles GET /api/quiz/results/:attemptId
func (h *QuizSessionHandler) GetResults(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.GetResults(c.Context(), attemptID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// sessionToken reads the token from the cookie, falling back to the header.
func (h *QuizSessionHandler) sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(h.session.CookieName); token != "" {
		return token
	}
	return c.Get(SessionTokenHeader)
}

func (h *QuizSessionHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.session.TTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (h *QuizSessionHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

package handler

import (
	"quiz-engine/internal/dto"
	"quiz-engine/internal/service"
	"quiz-engine/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ContentHandler handles the category and question management surface
type ContentHandler struct {
	service   service.ContentService
	validator *validation.Validator
}

// NewContentHandler creates a new ContentHandler instance
func NewContentHandler(svc service.ContentService) *ContentHandler {
	return &ContentHandler{
		service:   svc,
		validator: validation.NewValidator(),
	}
}

// GetCategories handles GET /api/categories
func (h *ContentHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/admin/categories
func (h *ContentHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	category, err := h.service.CreateCategory(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// CreateQuestion handles POST /api/admin/questions
func (h *ContentHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	questionID, err := h.service.CreateQuestion(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"question_id": questionID})
}

// SetCorrectChoice handles PUT /api/admin/questions/:id/correct-choice
func (h *ContentHandler) SetCorrectChoice(c *fiber.Ctx) error {
	questionID := c.Params("id")

	var req dto.SetCorrectChoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := h.validator.ValidateSubmitAnswerRequest(&dto.SubmitAnswerRequest{ChoiceID: req.ChoiceID}); len(errs) > 0 {
		return errs
	}

	if err := h.service.SetCorrectChoice(c.Context(), questionID, req.ChoiceID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type AIHandler struct {
	s service.AIService
}

func NewAIHandler(service service.AIService) *AIHandler {
	return &AIHandler{s: service}
}

func (h *AIHandler) GenerateText(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.TextGeneration
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	content, err := h.s.GenerateText(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"content": content,
	})
}

func (h *AIHandler) GenerateImage(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ImageGeneration
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	image, err := h.s.GenerateImage(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoImageCredits) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(image)
}

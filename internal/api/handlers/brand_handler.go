package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/service"
)

type BrandHandler struct {
	s service.BrandService
}

func NewBrandHandler(service service.BrandService) *BrandHandler {
	return &BrandHandler{s: service}
}

func (h *BrandHandler) SaveProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var profile models.BrandProfile
	if err := c.BodyParser(&profile); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	saved, err := h.s.SaveProfile(c.Context(), userID, &profile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(saved)
}

func (h *BrandHandler) GetProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)

	profile, err := h.s.GetProfile(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(profile)
}

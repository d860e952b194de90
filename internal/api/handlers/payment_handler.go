package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type PaymentHandler struct {
	s service.SubscriptionService
}

func NewPaymentHandler(service service.SubscriptionService) *PaymentHandler {
	return &PaymentHandler{s: service}
}

// PaymentWebhook verifies the provider signature over the raw body
// before parsing anything out of it.
func (h *PaymentHandler) PaymentWebhook(c *fiber.Ctx) error {
	signature := c.Get("X-Webhook-Signature")
	body := c.Body()

	if err := h.s.VerifySignature(body, signature); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid signature",
		})
	}

	var event transfer.PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.s.HandlePaymentEvent(c.Context(), &event); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PaymentHandler) GetSubscription(c *fiber.Ctx) error {
	userID := GetUserID(c)

	sub, err := h.s.GetSubscription(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(sub)
}

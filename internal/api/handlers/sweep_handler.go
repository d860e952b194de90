package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postpilot/configs"
	job "github.com/maheshrc27/postpilot/internal/jobs"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

// SweepHandler exposes the scheduler sweeps over HTTP so an external
// trigger can drive them in addition to the in-process cron.
type SweepHandler struct {
	sweep   *job.SweepJob
	reclaim *job.ReclaimJob
	cfg     config.Config
}

func NewSweepHandler(cfg config.Config, sweep *job.SweepJob, reclaim *job.ReclaimJob) *SweepHandler {
	return &SweepHandler{
		sweep:   sweep,
		reclaim: reclaim,
		cfg:     cfg,
	}
}

func (h *SweepHandler) authorized(c *fiber.Ctx) bool {
	secret := c.Get("X-Sweep-Secret")
	return subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.SweepSecret)) == 1
}

func (h *SweepHandler) RunSweep(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	count, err := h.sweep.Sweep(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(transfer.SweepResult{Count: count})
}

func (h *SweepHandler) RunReclaim(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	count, err := h.reclaim.Reclaim(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(transfer.SweepResult{Count: count})
}

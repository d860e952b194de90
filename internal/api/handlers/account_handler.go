package handlers

import (
	"fmt"
	"log"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
)

type AccountHandler struct {
	s   service.AccountService
	cfg config.Config
}

func NewAccountHandler(cfg config.Config, service service.AccountService) *AccountHandler {
	return &AccountHandler{s: service, cfg: cfg}
}

// AddSocialAccount redirects to the platform's consent screen. The
// session token travels as OAuth state so the callback can recover the
// user without a cookie.
func (h *AccountHandler) AddSocialAccount(c *fiber.Ctx) error {
	state := c.Cookies(h.cfg.CookieName)
	authURL := h.s.GetAuthURL(c.Context(), c.Params("platform"), state)
	if authURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown platform",
		})
	}
	return c.Redirect(authURL)
}

func (h *AccountHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	platform := c.Params("platform")

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	switch platform {
	case "linkedin":
		err = h.s.LinkedinCallback(c.Context(), code, userID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "something went wrong",
			})
		}
	case "instagram":
		err = h.s.InstagramCallback(c.Context(), code, userID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "something went wrong",
			})
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown platform",
		})
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

// ConnectWithToken stores a credential obtained client-side (facebook
// page tokens, x tokens).
func (h *AccountHandler) ConnectWithToken(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var conn transfer.AccountConnection
	if err := c.BodyParser(&conn); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	accountID, err := h.s.ConnectWithToken(c.Context(), userID, &conn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": accountID,
	})
}

func (h *AccountHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountList, err := h.s.List(c.Context(), userID)
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch social accounts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(accountList)
}

func (h *AccountHandler) DeleteSocialAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := c.QueryInt("id", 0)

	err := h.s.Delete(c.Context(), userID, int64(accountID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to delete social account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

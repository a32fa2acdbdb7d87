package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.Passphrase) == "" {
		return apiError(c, fiber.StatusBadRequest, "passphrase is required")
	}

	key := clientKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(key, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	if err := bcrypt.CompareHashAndPassword(handler.passphraseHash, []byte(input.Passphrase)); err != nil {
		handler.loginLimiter.fail(key, now)
		handler.logger.WithField("client", key).Warn("login rejected")
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	handler.loginLimiter.clear(key)

	token, err := IssueOwnerToken(handler.secretKey, defaultAuthTokenTTL, now)
	if err != nil {
		handler.logger.WithError(err).Error("issue token failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"token": token})
}

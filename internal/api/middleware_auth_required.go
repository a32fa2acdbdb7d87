package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	if _, err := handler.verifyToken(bearerToken(c)); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.Next()
}

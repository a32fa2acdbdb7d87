package api

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application with middleware and routes. Access log
// lines are written to accessLog; pass io.Discard to silence them.
func NewApp(handler *Handler, accessLog io.Writer) *fiber.App {
	if accessLog == nil {
		accessLog = io.Discard
	}

	app := fiber.New(fiber.Config{
		AppName:               "cyclemark",
		DisableStartupMessage: true,
		ErrorHandler:          handler.errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: accessLog,
		Format: "${status} ${method} ${path} ${latency}\n",
	}))

	RegisterRoutes(app, handler)
	return app
}

func (handler *Handler) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}
	if status >= fiber.StatusInternalServerError {
		handler.logger.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return apiError(c, status, message)
}

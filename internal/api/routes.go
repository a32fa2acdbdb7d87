package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)

	records := api.Group("/records", handler.AuthRequired)
	records.Get("", handler.GetRecords)
	records.Delete("", handler.DeleteAllRecords)

	days := api.Group("/days", handler.AuthRequired)
	days.Post("/:date/click", handler.ClickDay)

	clickState := api.Group("/click-state", handler.AuthRequired)
	clickState.Get("", handler.GetClickState)
	clickState.Delete("", handler.ResetClickState)

	api.Get("/cycles", handler.AuthRequired, handler.GetCycles)
	api.Get("/calendar", handler.AuthRequired, handler.GetCalendar)

	app.Use(handler.NotFound)
}

package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	if handler.metrics != nil {
		app.Get("/metrics", handler.metrics.Handler())
	}
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Post("/signup", handler.PublicRateLimit, handler.Signup)
	api.Post("/contact", handler.PublicRateLimit, handler.SubmitInquiry)

	dashboard := api.Group("/dashboard", handler.AuthRequired)
	dashboard.Get("", handler.GetCalendar)
	dashboard.Get("/history", handler.GetHistory)
	dashboard.Get("/confirm", handler.GetHistory)

	records := dashboard.Group("/records")
	records.Get("/check", handler.CheckEntryExists)
	records.Post("", handler.CreateEntry)
	records.Post("/new", handler.CreateEntry)
	records.Get("/:id", handler.GetEntry)
	records.Put("/:id", handler.UpdateEntry)
	records.Delete("/:id", handler.DeleteEntry)

	habit := dashboard.Group("/habit")
	habit.Get("", handler.GetHabit)
	habit.Post("", handler.CreateHabit)
	habit.Put("", handler.UpdateHabit)
	habit.Delete("", handler.DeleteHabit)
}

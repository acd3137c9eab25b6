package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func NewApp(handler *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Bullet Journal",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	cron := api.Group("/cron")
	cron.Post("/reminders", handler.CronReminders)
	cron.Get("/reminders", handler.CronReminders)

	api.Get("/push/vapid-public-key", handler.VAPIDPublicKey)

	api.Get("/me", handler.AuthRequired, handler.Me)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Get("", handler.GetProfile)
	profile.Put("", handler.UpdateProfile)

	push := api.Group("/push", handler.AuthRequired)
	push.Get("/subscriptions", handler.ListPushSubscriptions)
	push.Post("/subscribe", handler.SubscribePush)
	push.Delete("/subscribe", handler.UnsubscribePush)

	api.Get("/categories", handler.AuthRequired, handler.ListCategories)
	api.Get("/answer-types", handler.AuthRequired, handler.ListAnswerTypes)

	templates := api.Group("/templates", handler.AuthRequired)
	templates.Get("", handler.ListTemplates)
	templates.Post("", handler.CreateTemplate)
	templates.Put("/:id", handler.UpdateTemplate)
	templates.Delete("/:id", handler.DeleteTemplate)

	questions := api.Group("/questions", handler.AuthRequired)
	questions.Get("", handler.ListQuestions)
	questions.Post("", handler.AddQuestion)
	questions.Put("/order", handler.ReorderQuestions)
	questions.Put("/:id", handler.UpdateQuestion)
	questions.Delete("/:id", handler.DeleteQuestion)

	days := api.Group("/days", handler.AuthRequired)
	days.Get("/:date", handler.GetDay)
	days.Put("/:date", handler.SaveDay)
	days.Delete("/:date", handler.DeleteDay)

	stats := api.Group("/stats", handler.AuthRequired)
	stats.Get("/trends", handler.GetTrends)
	stats.Get("/calendar", handler.GetCalendar)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/summary", handler.ExportSummary)

	api.Delete("/admin/impersonate", handler.AuthRequired, handler.StopImpersonation)

	admin := api.Group("/admin", handler.AuthRequired, handler.AdminOnly)
	admin.Post("/impersonate", handler.StartImpersonation)
	admin.Get("/users", handler.ListUsers)
	admin.Put("/users/:id/tier", handler.SetUserTier)
	admin.Post("/categories", handler.CreateCategory)
	admin.Put("/categories/:id", handler.UpdateCategory)
	admin.Delete("/categories/:id", handler.DeleteCategory)
	admin.Post("/answer-types", handler.CreateAnswerType)
	admin.Put("/answer-types/:id", handler.UpdateAnswerType)
	admin.Delete("/answer-types/:id", handler.DeleteAnswerType)
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}

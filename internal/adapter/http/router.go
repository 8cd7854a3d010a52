package http

import (
	"github.com/gofiber/fiber/v2"
)

// NewApp builds the fiber app with every builder route registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(h.logger),
	})
	h.Register(app)
	return app
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/resumes", h.ListResumes)
	app.Delete("/resumes/:id", h.DeleteResume)
	app.Post("/resumes/:id/duplicate", h.DuplicateResume)
	app.Get("/resumes/:id/pdf", h.ResumePDF)
	app.Get("/resumes/:id/history", h.ResumeHistory)

	sessions := app.Group("/sessions")
	sessions.Post("/", h.CreateSession)
	sessions.Get("/:sid", h.GetSession)
	sessions.Delete("/:sid", h.CloseSession)
	sessions.Patch("/:sid/profile", h.UpdateProfile)

	entries := sessions.Group("/:sid/sections/:section/entries")
	entries.Post("/", h.AddEntry)
	entries.Patch("/:entry", h.UpdateEntry)
	entries.Delete("/:entry", h.RemoveEntry)
	entries.Post("/:entry/bullet", h.AppendBullet)

	sessions.Get("/:sid/preview.pdf", h.PreviewPDF)
	sessions.Get("/:sid/preview", h.Preview)
	sessions.Post("/:sid/save", h.Save)
	sessions.Get("/:sid/notices", h.Notices)
	sessions.Get("/:sid/history", h.History)
	sessions.Get("/:sid/ws", h.Subscribe)
}

package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sandeepkv93/weekgrid/internal/httpserver/deps"
	"github.com/sandeepkv93/weekgrid/internal/httpserver/handlers"
)

func init() { Register(registerAPI, middleware.NoCache) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Get("/activities", handlers.ListActivities(d))
		api.Post("/activities", handlers.CreateActivity(d))
		api.Delete("/activities", handlers.ClearActivities(d))
		api.Get("/activities/{id}", handlers.GetActivity(d))
		api.Put("/activities/{id}", handlers.UpdateActivity(d))
		api.Delete("/activities/{id}", handlers.DeleteActivity(d))
		api.Get("/activities/{id}/preview", handlers.PreviewActivity(d))

		api.Get("/week", handlers.Week(d))
		api.Get("/month", handlers.Month(d))

		api.Post("/import", handlers.Import(d))
		api.Get("/export.ics", handlers.ExportICS(d))
		api.Get("/prompt", handlers.Prompt(d))
	})
}

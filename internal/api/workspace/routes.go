package workspace

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers workspace routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/workspaces", func(r chi.Router) {
		r.Post("/", h.CreateWorkspace)

		r.Route("/{workspace_id}", func(r chi.Router) {
			r.Get("/", h.GetWorkspace)
			r.Post("/reset", h.Reset)
			r.Post("/idea", h.SubmitIdea)
			r.Post("/confirm", h.ConfirmAnalysis)
			r.Post("/messages", h.SendMessage)
			r.Post("/load", h.LoadProject)
			r.Get("/theme.css", h.Theme)
			r.Get("/diagram.svg", h.Diagram)
			r.Get("/export/{format}", h.Export)
		})
	})
}

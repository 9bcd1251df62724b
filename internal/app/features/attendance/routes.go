// internal/app/features/attendance/routes.go
package attendance

import "github.com/go-chi/chi/v5"

// Routes returns the attendance subrouter, mounted under /attendance.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
	r.Post("/rebuild", h.Rebuild)
	return r
}

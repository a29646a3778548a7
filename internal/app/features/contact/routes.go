// internal/app/features/contact/routes.go
package contact

import "github.com/go-chi/chi/v5"

// Routes serves /contact.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeContact)
	r.Post("/", h.HandleContact)
	return r
}

// MessageRoutes serves /contact-us.
func MessageRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeContactUs)
	r.Post("/", h.HandleContactUs)
	return r
}

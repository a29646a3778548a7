package content

import "github.com/go-chi/chi/v5"

// Routes mounts the list page and, for types with one, the detail page.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	if h.Detail {
		r.Get("/{id}", h.ServeDetail)
	}
	return r
}

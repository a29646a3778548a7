package admincrud

import "github.com/go-chi/chi/v5"

// Routes is mounted at /admin/<type> inside the signed-in admin group.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}", h.HandleUpdate)
	r.Get("/{id}/delete", h.ServeDeleteConfirm)
	r.Post("/{id}/delete", h.HandleDelete)
	if h.Schema.Ordered {
		r.Post("/{id}/move", h.HandleMove)
	}
	return r
}

package village

import "github.com/go-chi/chi/v5"

// Routes is mounted at /admin/village inside the signed-in admin group.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeEdit)
	r.Post("/", h.HandleUpdate)
	r.Get("/reset", h.ServeResetConfirm)
	r.Post("/reset", h.HandleReset)
	r.Post("/slider", h.HandleUpload)
	r.Post("/slider/{slideID}/caption", h.HandleCaption)
	r.Post("/slider/{slideID}/delete", h.HandleDeleteSlide)
	return r
}

package messages

import "github.com/go-chi/chi/v5"

// Routes is mounted at /admin/messages inside the signed-in admin group.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeMessage)
	r.Post("/{id}/read", h.HandleMarkRead)
	r.Post("/{id}/unread", h.HandleMarkUnread)
	r.Post("/{id}/status", h.HandleStatus)
	r.Post("/{id}/reply", h.HandleReply)
	r.Get("/{id}/delete", h.ServeDeleteConfirm)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}

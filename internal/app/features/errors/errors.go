// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler is the errors feature handler.
// No backend needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound renders the friendly 404 page. Mounted as the router's
// NotFound handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderStatus(w, r, http.StatusNotFound, "page.notFound.title", "", "/")
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderStatus(w, r, http.StatusUnauthorized, "nav.login", "msg.sessionExpired", "/admin/login")
}

// RenderStatus writes status and renders the error page. message may be a
// catalog key or verbatim text.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, titleKey, message, backURL string) {
	data := pageData{BaseVM: viewdata.NewBaseVM(r, titleKey, backURL)}
	if message != "" {
		data.Message = data.T[message]
		if data.Message == "" {
			data.Message = message
		}
	}
	if backURL != "" {
		data.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

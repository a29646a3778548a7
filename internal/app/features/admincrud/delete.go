package admincrud

import (
	"context"
	"net/http"

	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type deleteData struct {
	viewdata.BaseVM
	Base   string
	ID     string
	Item   viewdata.Card
	Prompt string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/<type>/{id}/delete                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDeleteConfirm asks before anything is removed.
func (h *Handler) ServeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	id := chi.URLParam(r, "id")
	res, err := h.session(w, r).Fetch(ctx, h.Schema.ItemPath(id))
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin load "+h.Schema.Type, err, h.Base)
		return
	}
	data := deleteData{
		BaseVM: viewdata.NewBaseVM(r, "action.delete", h.Base),
		Base:   h.Base,
		ID:     id,
	}
	data.Item = viewdata.NewCard(h.Schema, res, data.Fmt, "")
	data.Prompt = data.T["msg.confirmDelete"]
	templates.Render(w, r, "admin_delete", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/<type>/{id}/delete                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes the record when the form carries confirm=yes. Any
// other answer returns to the list untouched.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", h.Base)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id := chi.URLParam(r, "id")
	ctl := listing.New(h.Schema, h.session(w, r))
	removed, err := ctl.Delete(ctx, id, listing.Confirmed(r.PostFormValue("confirm") == "yes"))
	switch {
	case removed:
		h.AuditLog.ResourceChanged(r, auditlog.EventDeleted, h.Schema.Type, id, nil)
	case err != nil:
		h.AuditLog.ResourceChanged(r, auditlog.EventDeleted, h.Schema.Type, id, err)
	}
	switch {
	case err != nil:
		h.ErrLog.HandleAPIError(w, r, "admin delete "+h.Schema.Type, err, h.Base)
	case !removed:
		http.Redirect(w, r, h.Base, http.StatusSeeOther)
	default:
		h.redirect(w, r, "msg.deleted")
	}
}

package messages

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	messagestore "github.com/dalemusser/grampanchayat/internal/app/store/messages"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type detailData struct {
	viewdata.BaseVM
	Message    message
	Statuses   []viewdata.Option
	CanReply   bool
	ReplyText  string
	ReplyError string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/messages/{id}                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeMessage shows one message. Opening an unread message marks it read.
func (h *Handler) ServeMessage(w http.ResponseWriter, r *http.Request) {
	data, err := h.buildDetail(w, r, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin load message", err, base)
		return
	}
	templates.Render(w, r, "admin_message", data)
}

func (h *Handler) buildDetail(w http.ResponseWriter, r *http.Request, id string) (detailData, error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	sess := h.session(w, r)
	res, err := sess.Fetch(ctx, fieldmodel.MustLookup(models.TypeContactMessages).ItemPath(id))
	if err != nil {
		return detailData{}, err
	}
	if !res.Bool("isRead") {
		if err := messagestore.New(sess).MarkRead(ctx, id); err != nil {
			h.Log.Warn("mark read failed", zap.String("id", id), zap.Error(err))
		} else if res.Fields != nil {
			res.Fields["isRead"] = true
		}
	}

	data := detailData{BaseVM: viewdata.NewBaseVM(r, "nav.messages", base)}
	data.Message = newMessage(res, data.Fmt)
	data.CanReply = data.Message.Status != "closed"
	for _, s := range models.MessageStatuses {
		data.Statuses = append(data.Statuses, viewdata.Option{
			Value:    s,
			Label:    i18n.Label(data.Lang, "option", s),
			Selected: s == data.Message.Status,
		})
	}
	return data, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/messages/{id}/read, /unread                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	h.setRead(w, r, true)
}

func (h *Handler) HandleMarkUnread(w http.ResponseWriter, r *http.Request) {
	h.setRead(w, r, false)
}

func (h *Handler) setRead(w http.ResponseWriter, r *http.Request, read bool) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id := chi.URLParam(r, "id")
	store := h.store(w, r)
	var err error
	if read {
		err = store.MarkRead(ctx, id)
	} else {
		err = store.MarkUnread(ctx, id)
	}
	h.AuditLog.ResourceChanged(r, auditlog.EventMessageStatus, models.TypeContactMessages, id, err)
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin mark message", err, base)
		return
	}
	http.Redirect(w, r, back(r, "msg.updated"), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/messages/{id}/status                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id := chi.URLParam(r, "id")
	err := h.store(w, r).SetStatus(ctx, id, strings.TrimSpace(r.PostFormValue("status")))
	if errors.Is(err, messagestore.ErrStatus) {
		h.ErrLog.LogBadRequest(w, r, "unknown message status", err, "Invalid form data.", base)
		return
	}
	h.AuditLog.ResourceChanged(r, auditlog.EventMessageStatus, models.TypeContactMessages, id, err)
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin message status", err, base)
		return
	}
	http.Redirect(w, r, back(r, "msg.updated"), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/messages/{id}/reply                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleReply stores the reply text. A blank reply re-renders the message
// with an error and sends nothing.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id := chi.URLParam(r, "id")
	text := r.PostFormValue("reply")
	err := h.store(w, r).Reply(ctx, id, text)
	if err == nil {
		h.AuditLog.ResourceChanged(r, auditlog.EventMessageReply, models.TypeContactMessages, id, nil)
		http.Redirect(w, r, back(r, "msg.replied"), http.StatusSeeOther)
		return
	}
	if !errors.Is(err, messagestore.ErrEmptyReply) {
		h.AuditLog.ResourceChanged(r, auditlog.EventMessageReply, models.TypeContactMessages, id, err)
	}

	data, loadErr := h.buildDetail(w, r, id)
	if loadErr != nil {
		h.ErrLog.HandleAPIError(w, r, "admin load message", loadErr, base)
		return
	}
	data.ReplyText = text
	if errors.Is(err, messagestore.ErrEmptyReply) {
		data.ReplyError = i18n.T(data.Lang, "msg.required")
	} else {
		data.WithError(uierrors.BannerMessage(data.Lang, err))
	}
	templates.Render(w, r, "admin_message", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /admin/messages/{id}/delete                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type deleteData struct {
	viewdata.BaseVM
	Message message
	Prompt  string
}

func (h *Handler) ServeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	id := chi.URLParam(r, "id")
	res, err := h.session(w, r).Fetch(ctx, fieldmodel.MustLookup(models.TypeContactMessages).ItemPath(id))
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin load message", err, base)
		return
	}
	data := deleteData{BaseVM: viewdata.NewBaseVM(r, "action.delete", base+"/"+id)}
	data.Message = newMessage(res, data.Fmt)
	data.Prompt = data.T["msg.confirmDelete"]
	templates.Render(w, r, "admin_message_delete", data)
}

// HandleDelete removes the message when the form carries confirm=yes.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id := chi.URLParam(r, "id")
	ctl := listing.New(fieldmodel.MustLookup(models.TypeContactMessages), h.session(w, r))
	removed, err := ctl.Delete(ctx, id, listing.Confirmed(r.PostFormValue("confirm") == "yes"))
	switch {
	case removed:
		h.AuditLog.ResourceChanged(r, auditlog.EventDeleted, models.TypeContactMessages, id, nil)
		http.Redirect(w, r, base+"?flash=msg.deleted", http.StatusSeeOther)
	case err != nil:
		h.AuditLog.ResourceChanged(r, auditlog.EventDeleted, models.TypeContactMessages, id, err)
		h.ErrLog.HandleAPIError(w, r, "admin delete message", err, base)
	default:
		http.Redirect(w, r, base+"/"+id, http.StatusSeeOther)
	}
}

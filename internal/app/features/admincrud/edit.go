package admincrud

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/draft"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/formutil"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type formData struct {
	viewdata.BaseVM
	Base     string
	Action   string
	IsEdit   bool
	ID       string
	LoadedAt string
	Form     viewdata.Form
}

func (h *Handler) newFormData(r *http.Request, d draft.Draft, errs draft.ValidationErrors) formData {
	titleKey := "action.add"
	action := h.Base
	if d.IsEdit() {
		titleKey = "action.edit"
		action = h.Base + "/" + d.ID()
	}
	data := formData{
		BaseVM: viewdata.NewBaseVM(r, titleKey, h.Base),
		Base:   h.Base,
		Action: action,
		IsEdit: d.IsEdit(),
		ID:     d.ID(),
	}
	data.Title = i18n.T(data.Lang, "type."+h.Schema.Type) + ": " + data.Title
	if !d.LoadedAt().IsZero() {
		data.LoadedAt = d.LoadedAt().Format(loadedAtLayout)
	}
	data.Form = viewdata.NewForm(d, errs, data.Lang)
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/<type>/new                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "admin_form", h.newFormData(r, draft.InitCreate(h.Schema), nil))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/<type>/{id}/edit                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	id := chi.URLParam(r, "id")
	res, err := h.session(w, r).Fetch(ctx, h.Schema.ItemPath(id))
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin load "+h.Schema.Type, err, h.Base)
		return
	}
	templates.Render(w, r, "admin_form", h.newFormData(r, draft.InitEdit(h.Schema, res), nil))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/<type>           (create)                                       |
| POST /admin/<type>/{id}      (update)                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.handleSave(w, r, func() draft.Draft { return draft.InitCreate(h.Schema) })
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.handleSave(w, r, func() draft.Draft {
		return h.editDraft(chi.URLParam(r, "id"), r.PostFormValue("loadedAt"))
	})
}

// editDraft rebuilds the draft an edit form was opened with. Only the
// id and the load time matter; every slot is then taken from the post.
func (h *Handler) editDraft(id, loadedAt string) draft.Draft {
	res := models.NewResource(id, nil)
	if t, err := time.Parse(loadedAtLayout, loadedAt); err == nil {
		res.UpdatedAt = t
	}
	return draft.InitEdit(h.Schema, res)
}

// handleSave parses the post before start builds the draft, so the body
// limit applies to every read of the form.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request, start func() draft.Draft) {
	err := formutil.Parse(w, r, h.Schema.HasMedia())
	d := start()
	if err != nil {
		if errors.Is(err, formutil.ErrTooLarge) {
			h.renderForm(w, r, d, nil, "msg.fileTooLarge")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", h.Base)
		return
	}

	d, errs, err := h.save(w, r, d)
	switch {
	case err == nil:
		if d.IsEdit() {
			h.redirect(w, r, "msg.updated")
		} else {
			h.redirect(w, r, "msg.created")
		}
	case errs != nil:
		h.renderForm(w, r, d, errs, "")
	default:
		h.renderForm(w, r, d, nil, uierrors.BannerMessage(i18n.FromRequest(r), err))
	}
}

// save applies the parsed post to d and submits it. It returns the draft
// as filled from the form so a failed save can be shown again.
func (h *Handler) save(w http.ResponseWriter, r *http.Request, d draft.Draft) (draft.Draft, draft.ValidationErrors, error) {
	files, err := formutil.Files(r, h.mediaKeys()...)
	if err != nil {
		return d, nil, err
	}
	d, err = draft.FromForm(d, r.PostForm, files)
	if err != nil {
		return d, nil, err
	}
	d = keepCurrentMedia(d, r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.ForWrite(len(files) > 0))
	defer cancel()

	res, err := draft.Submit(ctx, h.session(w, r), d, draft.Options{CheckStale: h.StaleCheck})
	event := auditlog.EventCreated
	if d.IsEdit() {
		event = auditlog.EventUpdated
	}

	var verrs draft.ValidationErrors
	if errors.As(err, &verrs) {
		return d, verrs, err
	}
	id := d.ID()
	if id == "" {
		id = res.ID
	}
	h.AuditLog.ResourceChanged(r, event, h.Schema.Type, id, err)
	if err != nil {
		h.Log.Warn("admin save failed", zap.String("id", id), zap.Error(err))
	}
	return d, nil, err
}

func (h *Handler) mediaKeys() []string {
	var keys []string
	for _, f := range h.Schema.Fields {
		if f.Kind == fieldmodel.MediaFile {
			keys = append(keys, f.Name)
		}
	}
	return keys
}

// keepCurrentMedia restores the stored media URL of slots without a new
// upload, so a re-rendered form still shows the current image.
func keepCurrentMedia(d draft.Draft, r *http.Request) draft.Draft {
	for _, desc := range d.Schema().Expand() {
		if desc.Kind != fieldmodel.MediaFile || d.Media(desc.Key).Selected() {
			continue
		}
		if cur := strings.TrimSpace(r.PostFormValue("current_" + desc.Key)); cur != "" {
			if next, err := draft.SetField(d, desc.Key, draft.Media{URL: cur}); err == nil {
				d = next
			}
		}
	}
	return d
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, d draft.Draft, errs draft.ValidationErrors, banner string) {
	data := h.newFormData(r, d, errs)
	if banner != "" {
		data.WithError(banner)
	}
	templates.Render(w, r, "admin_form", data)
}

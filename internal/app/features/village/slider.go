package village

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	villagestore "github.com/dalemusser/grampanchayat/internal/app/store/village"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/formutil"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/village/slider                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpload adds one slider image with a caption per language.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := formutil.Parse(w, r, true); err != nil {
		if errors.Is(err, formutil.ErrTooLarge) {
			h.renderPage(w, r, "msg.fileTooLarge")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	file, _, err := formutil.File(r, "image")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "read upload failed", err, "Invalid form data.", base)
		return
	}
	captions := make(map[string]string, len(fieldmodel.Languages))
	for _, code := range fieldmodel.Codes() {
		captions[code] = strings.TrimSpace(r.PostFormValue("caption_" + code))
	}

	readCtx, cancelRead := context.WithTimeout(r.Context(), timeouts.Read())
	p, err := h.store(w, r).Admin(readCtx)
	cancelRead()
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin load village", err, base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	_, err = h.store(w, r).UploadSlide(ctx, len(p.Slides), file, captions)
	switch {
	case errors.Is(err, villagestore.ErrSliderFull):
		h.renderPage(w, r, "msg.sliderFull")
		return
	case errors.Is(err, villagestore.ErrNoImage):
		h.renderPage(w, r, "msg.imageRequired")
		return
	}
	h.AuditLog.ResourceChanged(r, auditlog.EventSliderChanged, models.TypeVillage, "", err)
	if err != nil {
		h.renderPage(w, r, uierrors.BannerMessage(i18n.FromRequest(r), err))
		return
	}
	h.redirect(w, r, "msg.uploaded")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/village/slider/{slideID}/caption                                |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCaption changes one language's caption on a slide.
func (h *Handler) HandleCaption(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	lang := strings.TrimSpace(r.PostFormValue("lang"))
	if !fieldmodel.IsSupported(lang) {
		h.ErrLog.LogBadRequest(w, r, "unsupported caption language", errors.New(lang), "Invalid form data.", base)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id := chi.URLParam(r, "slideID")
	_, err := h.store(w, r).UpdateCaption(ctx, id, lang, strings.TrimSpace(r.PostFormValue("caption")))
	h.AuditLog.ResourceChanged(r, auditlog.EventSliderChanged, models.TypeVillage, id, err)
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin slider caption", err, base)
		return
	}
	h.redirect(w, r, "msg.updated")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/village/slider/{slideID}/delete                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteSlide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id := chi.URLParam(r, "slideID")
	_, err := h.store(w, r).DeleteSlide(ctx, id)
	h.AuditLog.ResourceChanged(r, auditlog.EventSliderChanged, models.TypeVillage, id, err)
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin slider delete", err, base)
		return
	}
	h.redirect(w, r, "msg.deleted")
}

// renderPage shows the village page again with banner.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, banner string) {
	data, err := h.buildEdit(w, r)
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin load village", err, "/admin")
		return
	}
	data.WithError(banner)
	templates.Render(w, r, "admin_village", data)
}

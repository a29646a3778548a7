package village

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/draft"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/formutil"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type caption struct {
	Code string
	Name string
	Text string
}

type slide struct {
	ID       string
	ImageURL string
	Captions []caption
}

type editData struct {
	viewdata.BaseVM
	Base       string
	LoadedAt   string
	Form       viewdata.Form
	Slides     []slide
	SliderFull bool
	MaxSlides  int
	Languages  []caption // empty Text; used for the upload form's caption inputs
}

func newSlides(in []models.SliderImage) []slide {
	out := make([]slide, 0, len(in))
	for _, img := range in {
		s := slide{ID: img.ID, ImageURL: img.ImageURL}
		for _, l := range fieldmodel.Languages {
			s.Captions = append(s.Captions, caption{Code: l.Code, Name: l.Name, Text: img.Captions[l.Code]})
		}
		out = append(out, s)
	}
	return out
}

// newEditData builds the page for d. slides may be nil when they could
// not be loaded.
func (h *Handler) newEditData(r *http.Request, d draft.Draft, errs draft.ValidationErrors, slides []models.SliderImage) editData {
	data := editData{
		BaseVM:    viewdata.NewBaseVM(r, "nav.village", "/admin"),
		Base:      base,
		Slides:    newSlides(slides),
		MaxSlides: models.MaxSliderImages,
	}
	data.Form = viewdata.NewForm(d, errs, data.Lang)
	data.SliderFull = len(slides) >= models.MaxSliderImages
	if !d.LoadedAt().IsZero() {
		data.LoadedAt = d.LoadedAt().Format(loadedAtLayout)
	}
	for _, l := range fieldmodel.Languages {
		data.Languages = append(data.Languages, caption{Code: l.Code, Name: l.Name})
	}
	return data
}

// buildEdit loads the profile and slider. A village that has not been set
// up yet gets an empty form.
func (h *Handler) buildEdit(w http.ResponseWriter, r *http.Request) (editData, error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	p, err := h.store(w, r).Admin(ctx)
	if err != nil {
		return editData{}, err
	}
	return h.newEditData(r, draft.InitEdit(h.Schema, p.Record), nil, p.Slides), nil
}

// slidesOrNil reloads the slider for a re-rendered page. Failure only
// costs the slider section.
func (h *Handler) slidesOrNil(w http.ResponseWriter, r *http.Request) []models.SliderImage {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	p, err := h.store(w, r).Admin(ctx)
	if err != nil {
		h.Log.Warn("village slider reload failed", zap.Error(err))
		return nil
	}
	return p.Slides
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/village                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	data, err := h.buildEdit(w, r)
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin load village", err, "/admin")
		return
	}
	templates.Render(w, r, "admin_village", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/village                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpdate saves the profile. Every language version is sent in one
// request.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	err := formutil.Parse(w, r, h.Schema.HasMedia())
	d := h.editDraft(r.PostFormValue("loadedAt"))
	if err != nil {
		if errors.Is(err, formutil.ErrTooLarge) {
			h.renderEdit(w, r, d, nil, "msg.fileTooLarge")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}

	d, err = draft.FromForm(d, r.PostForm, nil)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "read village form failed", err, "Invalid form data.", base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	_, err = draft.Submit(ctx, h.session(w, r), d, draft.Options{CheckStale: h.StaleCheck})
	var verrs draft.ValidationErrors
	if errors.As(err, &verrs) {
		h.renderEdit(w, r, d, verrs, "")
		return
	}
	h.AuditLog.ResourceChanged(r, auditlog.EventUpdated, models.TypeVillage, "", err)
	if err != nil {
		h.Log.Warn("village save failed", zap.Error(err))
		h.renderEdit(w, r, d, nil, uierrors.BannerMessage(i18n.FromRequest(r), err))
		return
	}
	h.redirect(w, r, "msg.updated")
}

func (h *Handler) editDraft(loadedAt string) draft.Draft {
	res := models.NewResource("", nil)
	if t, err := time.Parse(loadedAtLayout, loadedAt); err == nil {
		res.UpdatedAt = t
	}
	return draft.InitEdit(h.Schema, res)
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, d draft.Draft, errs draft.ValidationErrors, banner string) {
	data := h.newEditData(r, d, errs, h.slidesOrNil(w, r))
	if banner != "" {
		data.WithError(banner)
	}
	templates.Render(w, r, "admin_village", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /admin/village/reset                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type resetData struct {
	viewdata.BaseVM
	Prompt string
}

func (h *Handler) ServeResetConfirm(w http.ResponseWriter, r *http.Request) {
	data := resetData{BaseVM: viewdata.NewBaseVM(r, "action.reset", base)}
	data.Prompt = data.T["msg.confirmReset"]
	templates.Render(w, r, "admin_village_reset", data)
}

// HandleReset clears the profile when the form carries confirm=yes.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	sent, err := h.store(w, r).Reset(ctx, listing.Confirmed(r.PostFormValue("confirm") == "yes"))
	if sent || err != nil {
		h.AuditLog.ResourceChanged(r, auditlog.EventVillageReset, models.TypeVillage, "", err)
	}
	switch {
	case err != nil:
		h.ErrLog.HandleAPIError(w, r, "admin reset village", err, base)
	case !sent:
		http.Redirect(w, r, base, http.StatusSeeOther)
	default:
		h.redirect(w, r, "msg.reset")
	}
}

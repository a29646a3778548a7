// internal/app/features/contact/handler.go
package contact

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	messagestore "github.com/dalemusser/grampanchayat/internal/app/store/messages"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/inputval"
	"github.com/dalemusser/grampanchayat/internal/app/system/ratelimit"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the two public forms: the contact page enquiry and the
// "write to us" message.
type Handler struct {
	API     *apiclient.Client
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(api *apiclient.Client, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		API:     api,
		Limiter: limiter,
		Log:     logger,
	}
}

// form is what the visitor typed plus per-field messages.
type form struct {
	Name    string
	Email   string
	Mobile  string
	Message string
	Errors  map[string]string // form key -> translated message
}

type pageData struct {
	viewdata.BaseVM
	Form     form
	Action   string
	Contacts []viewdata.Card
	Office   string // panchayat office contact line from the village profile
}

func readForm(r *http.Request) form {
	return form{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Mobile:  r.PostFormValue("mobile"),
		Message: r.PostFormValue("message"),
	}
}

// fieldErrors converts validator results into form-keyed messages.
func fieldErrors(lang string, res *inputval.Result) map[string]string {
	out := map[string]string{}
	for name, fe := range res.ByField() {
		out[strings.ToLower(name)] = i18n.T(lang, inputval.MessageKey(fe.Tag))
	}
	return out
}

// throttled reports whether the client has used up its submissions.
func (h *Handler) throttled(r *http.Request) bool {
	return h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r))
}

// sendErr maps a failed submission to the banner text.
func sendErr(lang string, err error) string {
	if errors.Is(err, errThrottled) {
		return i18n.T(lang, "msg.rateLimited")
	}
	return uierrors.BannerMessage(lang, err)
}

var errThrottled = errors.New("contact: too many submissions")

/*─────────────────────────────────────────────────────────────────────────────*
| /contact – office bearers and enquiry form                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "contact", h.buildContact(r, form{}))
}

func (h *Handler) buildContact(r *http.Request, f form) pageData {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	data := pageData{BaseVM: viewdata.NewBaseVM(r, "page.contact.title", "/"), Form: f, Action: "/contact"}
	sess := auth.PublicSession(r, h.API)
	contacts, err := sess.List(ctx, "/"+models.TypeContacts, nil)
	if err != nil {
		h.Log.Warn("contact: office bearers failed to load", zap.Error(err))
	}
	data.Contacts = viewdata.NewCards(fieldmodel.MustLookup(models.TypeContacts), contacts.Data, data.Fmt, "")

	if village, err := sess.Fetch(ctx, "/"+models.TypeVillage); err == nil {
		data.Office = viewdata.NewCard(fieldmodel.MustLookup(models.TypeVillage), village, data.Fmt, "").Attrs["grampanchayatContact"]
	}
	return data
}

// sendEnquiry validates and posts the contact page form. On failure the
// returned form carries the field errors, or err is set for a failed call.
func (h *Handler) sendEnquiry(r *http.Request) (form, error) {
	lang := i18n.FromRequest(r)
	f := readForm(r)
	e := messagestore.Enquiry{Name: f.Name, Email: f.Email, Mobile: f.Mobile, Message: f.Message}.Normalize()
	if res := inputval.Validate(e); res.HasErrors() {
		f.Errors = fieldErrors(lang, res)
		return f, nil
	}
	if h.throttled(r) {
		return f, errThrottled
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()
	return f, messagestore.New(auth.PublicSession(r, h.API)).SendEnquiry(ctx, e)
}

func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	f, err := h.sendEnquiry(r)
	if err == nil && len(f.Errors) == 0 {
		http.Redirect(w, r, "/contact?"+viewdata.FlashParam+"=msg.sent", http.StatusSeeOther)
		return
	}
	data := h.buildContact(r, f)
	if err != nil {
		h.Log.Warn("contact: enquiry not sent", zap.Error(err))
		data.WithError(sendErr(data.Lang, err))
	}
	templates.Render(w, r, "contact", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| /contact-us – write to the panchayat                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeContactUs(w http.ResponseWriter, r *http.Request) {
	data := pageData{BaseVM: viewdata.NewBaseVM(r, "page.contactUs.title", "/"), Action: "/contact-us"}
	templates.Render(w, r, "contact_us", data)
}

func (h *Handler) sendMessage(r *http.Request) (form, error) {
	lang := i18n.FromRequest(r)
	f := readForm(r)
	m := messagestore.NewMessage{Name: f.Name, Email: f.Email, Message: f.Message}.Normalize()
	if res := inputval.Validate(m); res.HasErrors() {
		f.Errors = fieldErrors(lang, res)
		return f, nil
	}
	if h.throttled(r) {
		return f, errThrottled
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()
	return f, messagestore.New(auth.PublicSession(r, h.API)).Send(ctx, m)
}

func (h *Handler) HandleContactUs(w http.ResponseWriter, r *http.Request) {
	f, err := h.sendMessage(r)
	if err == nil && len(f.Errors) == 0 {
		http.Redirect(w, r, "/contact-us?"+viewdata.FlashParam+"=msg.sent", http.StatusSeeOther)
		return
	}
	data := pageData{BaseVM: viewdata.NewBaseVM(r, "page.contactUs.title", "/"), Form: f, Action: "/contact-us"}
	if err != nil {
		h.Log.Warn("contact: message not sent", zap.Error(err))
		data.WithError(sendErr(data.Lang, err))
	}
	templates.Render(w, r, "contact_us", data)
}

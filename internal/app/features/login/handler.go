// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/ratelimit"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Handler signs admins in against the backend's /admin/login.
type Handler struct {
	API        *apiclient.Client
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Username  string
	ReturnURL string
}

func NewHandler(
	api *apiclient.Client,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	auditLog *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		API:        api,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Limiter:    limiter,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/login                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/admin"), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "page.login.title", "/"),
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/login                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/login")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	if msg := h.attempt(w, r, username, r.FormValue("password")); msg != "" {
		h.renderFormWithError(w, r, msg, username)
		return
	}

	ret := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "/admin")
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// attempt signs the admin in. It returns "" on success, otherwise the text
// to show above the form.
func (h *Handler) attempt(w http.ResponseWriter, r *http.Request, username, password string) string {
	lang := i18n.FromRequest(r)
	if username == "" || password == "" {
		return i18n.T(lang, "msg.required")
	}
	if h.Limiter != nil {
		if ok, key := h.Limiter.Check(r, username); !ok {
			h.AuditLog.LoginFailed(r, username, "rate limited")
			return i18n.T(lang, key)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	// the login call carries no credentials and must not trigger a logout
	res, err := auth.PublicSession(r, h.API).Login(ctx, username, password)
	if err != nil {
		reason := err.Error()
		if apiErr, ok := apiclient.AsError(err); ok {
			reason = apiErr.Message
		}
		h.AuditLog.LoginFailed(r, username, reason)
		return loginError(lang, err)
	}

	if err := h.SessionMgr.SignIn(w, r, res); err != nil {
		h.Log.Error("login: save session", zap.Error(err))
		h.AuditLog.LoginFailed(r, username, err.Error())
		return i18n.T(lang, "msg.loginFailed")
	}
	if h.Limiter != nil {
		h.Limiter.Succeeded(username)
	}
	h.AuditLog.LoginSuccess(r, username)
	h.Log.Info("admin signed in", zap.String("username", username))
	return ""
}

// loginError shows the backend's own reason ("Invalid credentials") when
// it gave one.
func loginError(lang string, err error) string {
	apiErr, ok := apiclient.AsError(err)
	switch {
	case !ok:
		return i18n.T(lang, "msg.loginFailed")
	case apiErr.Kind == apiclient.KindNetwork:
		return i18n.T(lang, "msg.networkError")
	case apiErr.Message != "":
		return apiErr.Message
	}
	return i18n.T(lang, "msg.loginFailed")
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form with an error                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "page.login.title", "/"),
		Username:  username,
		ReturnURL: ret,
	}
	data.Error = msg
	templates.Render(w, r, "login", data)
}

package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/draft"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure and renders the matching error page, so a
// handler never leaves a request without a final response.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
	RenderStatus(w, r, http.StatusInternalServerError, "page.error.title", userMsg, backURL)
}

// LogBadRequest logs err and renders a 400 page with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, zap.Error(err), zap.String("path", r.URL.Path))
	RenderStatus(w, r, http.StatusBadRequest, "page.error.title", userMsg, backURL)
}

// HandleAPIError renders the page for a failed backend call:
//   - 404 from the backend: the not-found page
//   - other server errors: the server's message, verbatim
//   - network errors: the try-again-later notice
//   - 401: the session-expired page (GuardUnauthorized replaces it with a
//     redirect on admin routes)
func (e *ErrorLogger) HandleAPIError(w http.ResponseWriter, r *http.Request, op string, err error, backURL string) {
	apiErr, ok := apiclient.AsError(err)
	switch {
	case ok && apiErr.Kind == apiclient.KindAuth:
		e.Log.Info(op+": backend rejected credentials")
		RenderStatus(w, r, http.StatusUnauthorized, "nav.login", "msg.sessionExpired", "/admin/login")
	case apiclient.IsNotFound(err):
		e.Log.Info(op+": not found", zap.String("path", r.URL.Path))
		RenderStatus(w, r, http.StatusNotFound, "page.notFound.title", "", backURL)
	case ok && apiErr.Kind == apiclient.KindNetwork:
		e.Log.Warn(op+": backend unreachable", zap.Error(err))
		RenderStatus(w, r, http.StatusServiceUnavailable, "page.error.title", "msg.networkError", backURL)
	case ok:
		e.Log.Warn(op+": backend error", zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
		RenderStatus(w, r, http.StatusBadGateway, "page.error.title", apiErr.Message, backURL)
	default:
		e.LogServerError(w, r, op, err, i18n.T(i18n.FromRequest(r), "page.error.title"), backURL)
	}
}

// BannerMessage is the text shown above a re-rendered form or list after
// a failed call, in lang.
func BannerMessage(lang string, err error) string {
	if err == nil {
		return ""
	}
	if stderrors.Is(err, draft.ErrStale) {
		return i18n.T(lang, "msg.stale")
	}
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return i18n.T(lang, "page.error.title")
	}
	switch apiErr.Kind {
	case apiclient.KindNetwork:
		return i18n.T(lang, "msg.networkError")
	case apiclient.KindAuth:
		return i18n.T(lang, "msg.sessionExpired")
	}
	return apiclient.UserMessage(err)
}

package login

import (
	"net/http"
	"net/url"
	"testing"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/ratelimit"
	"github.com/dalemusser/grampanchayat/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHandler(t *testing.T, fb *testutil.FakeBackend) (*Handler, *auth.SessionManager, *observer.ObservedLogs) {
	t.Helper()
	logger := zap.NewNop()
	core, logs := observer.New(zapcore.InfoLevel)
	sm := testutil.NewSessionManager(t)
	h := NewHandler(
		testutil.NewClient(t, fb),
		sm,
		uierrors.NewErrorLogger(logger),
		auditlog.New(zap.New(core), auditlog.Config{}),
		ratelimit.NewLoginLimiter(),
		logger,
	)
	return h, sm, logs
}

func loginOK(fb *testutil.FakeBackend) {
	fb.Respond(http.MethodPost, "/admin/login", http.StatusOK, map[string]any{
		"token": "tok-123",
		"adminInfo": map[string]any{
			"_id":      "a1",
			"username": "admin",
			"name":     "Gram Sevak",
		},
	})
}

func TestHandleLoginPost_Success(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	loginOK(fb)
	h, sm, logs := newTestHandler(t, fb)

	req := testutil.NewFormRequest("/admin/login", url.Values{
		"username": {" admin "},
		"password": {"secret"},
	})
	rec := testutil.NewRecorder()
	h.HandleLoginPost(rec, req)

	rec.AssertRedirect(t, "/admin")

	call, _ := fb.LastCall()
	if v, _ := call.FormOrJSON("username"); v != "admin" {
		t.Errorf("username sent = %v, want trimmed admin", v)
	}

	next := testutil.CarryCookies(rec.ResponseRecorder, testutil.NewRequest(http.MethodGet, "/admin"))
	if tok := sm.Credentials(testutil.NewRecorder(), next).Token(); tok != "tok-123" {
		t.Errorf("session token = %q", tok)
	}
	if logs.FilterField(zap.String("event_type", auditlog.EventLoginSuccess)).Len() != 1 {
		t.Error("expected a login_success audit entry")
	}
}

func TestHandleLoginPost_ReturnURL(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	loginOK(fb)
	h, _, _ := newTestHandler(t, fb)

	tests := []struct {
		name string
		ret  string
		want string
	}{
		{"local path", "/admin/news", "/admin/news"},
		{"empty", "", "/admin"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewFormRequest("/admin/login", url.Values{
				"username": {"admin"},
				"password": {"secret"},
				"return":   {tc.ret},
			})
			rec := testutil.NewRecorder()
			h.HandleLoginPost(rec, req)
			rec.AssertRedirect(t, tc.want)
		})
	}
}

func TestAttempt_MissingFields(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	h, _, _ := newTestHandler(t, fb)

	req := testutil.WithLanguage(testutil.NewFormRequest("/admin/login", nil), "en")
	msg := h.attempt(testutil.NewRecorder(), req, "admin", "")
	if msg != "This field is required." {
		t.Errorf("msg = %q", msg)
	}
	if fb.CallCount() != 0 {
		t.Error("an incomplete form must not reach the backend")
	}
}

func TestAttempt_BackendReason(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Respond(http.MethodPost, "/admin/login", http.StatusUnauthorized, map[string]any{
		"message": "Invalid credentials",
	})
	h, sm, logs := newTestHandler(t, fb)

	req := testutil.WithLanguage(testutil.NewFormRequest("/admin/login", nil), "en")
	rec := testutil.NewRecorder()
	msg := h.attempt(rec, req, "admin", "wrong")
	if msg != "Invalid credentials" {
		t.Errorf("msg = %q, want the backend's reason", msg)
	}

	next := testutil.CarryCookies(rec.ResponseRecorder, testutil.NewRequest(http.MethodGet, "/admin"))
	if tok := sm.Credentials(testutil.NewRecorder(), next).Token(); tok != "" {
		t.Errorf("failed login stored token %q", tok)
	}
	if logs.FilterField(zap.String("event_type", auditlog.EventLoginFailed)).Len() != 1 {
		t.Error("expected a login_failed audit entry")
	}
}

func TestAttempt_BackendDown(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	h, _, _ := newTestHandler(t, fb)
	fb.Server.Close()

	req := testutil.WithLanguage(testutil.NewFormRequest("/admin/login", nil), "en")
	msg := h.attempt(testutil.NewRecorder(), req, "admin", "secret")
	if msg != "Could not reach the server. Please try again later." {
		t.Errorf("msg = %q", msg)
	}
}

func TestAttempt_RateLimited(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Respond(http.MethodPost, "/admin/login", http.StatusUnauthorized, map[string]any{
		"message": "Invalid credentials",
	})
	h, _, _ := newTestHandler(t, fb)

	var msg string
	for i := 0; i < 6; i++ {
		req := testutil.WithLanguage(testutil.NewFormRequest("/admin/login", nil), "en")
		msg = h.attempt(testutil.NewRecorder(), req, "admin", "wrong")
	}
	if msg != "Too many submissions. Please wait a minute and try again." {
		t.Errorf("sixth attempt msg = %q", msg)
	}
	if fb.CallCount() != 5 {
		t.Errorf("backend calls = %d, want 5", fb.CallCount())
	}
}

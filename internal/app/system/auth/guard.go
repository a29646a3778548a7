package auth

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"go.uber.org/zap"
)

// tripwire records that a backend call answered 401 during this request.
type tripwire struct{ tripped atomic.Bool }

const tripwireKey ctxKey = "unauthorizedTripwire"

// UnauthorizedHook returns the function an apiclient.Session calls after a
// 401. Outside GuardUnauthorized it does nothing.
func UnauthorizedHook(r *http.Request) func() {
	tw, _ := r.Context().Value(tripwireKey).(*tripwire)
	return func() {
		if tw != nil {
			tw.tripped.Store(true)
		}
	}
}

// GuardUnauthorized turns a 401 from the backend into a redirect to the
// login page, whatever the handler was about to render. Output written by
// the handler after the 401 is discarded.
func (sm *SessionManager) GuardUnauthorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &tripwire{}
		gw := &guardWriter{ResponseWriter: w, tw: tw}
		r = r.WithContext(context.WithValue(r.Context(), tripwireKey, tw))

		next.ServeHTTP(gw, r)

		if !tw.tripped.Load() {
			return
		}
		if gw.committed {
			sm.log.Warn("backend rejected credentials after response started",
				zap.String("path", r.URL.Path))
			return
		}
		sm.log.Info("backend rejected credentials; redirecting to login",
			zap.String("path", r.URL.Path))
		if isHTMX(r) {
			w.Header().Set("HX-Redirect", LoginPath)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	})
}

type guardWriter struct {
	http.ResponseWriter
	tw        *tripwire
	committed bool
}

func (g *guardWriter) WriteHeader(code int) {
	if g.tw.tripped.Load() && !g.committed {
		return
	}
	g.committed = true
	g.ResponseWriter.WriteHeader(code)
}

func (g *guardWriter) Write(b []byte) (int, error) {
	if g.tw.tripped.Load() && !g.committed {
		return len(b), nil
	}
	g.committed = true
	return g.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (g *guardWriter) Unwrap() http.ResponseWriter { return g.ResponseWriter }

// APISession binds client to this request's credentials, active language
// and 401 hook.
func (sm *SessionManager) APISession(w http.ResponseWriter, r *http.Request, client *apiclient.Client) *apiclient.Session {
	return client.Session(sm.Credentials(w, r), i18n.FromRequest(r), UnauthorizedHook(r))
}

// PublicSession binds client to the active language only.
func PublicSession(r *http.Request, client *apiclient.Client) *apiclient.Session {
	return client.Session(nil, i18n.FromRequest(r), nil)
}

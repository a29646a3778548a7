// Package auth keeps the admin's backend credentials in a signed cookie
// session and exposes them to handlers.
//
// The REST backend is the only authority on who may do what. The session
// holds the bearer token returned by POST /admin/login, the admin profile
// returned with it, and the browser's language preference. Nothing here
// verifies the token; it is only decoded to honour its expiry.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "grampanchayat-session"

	// LoginPath is where unauthenticated admin requests are sent.
	LoginPath = "/admin/login"

	tokenKey   = "token"
	profileKey = "admin_profile"
	langKey    = "lang"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the signed-in admin as seen by handlers and templates.
type SessionUser struct {
	ID        string
	Name      string
	Username  string
	Email     string
	Role      string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects u into the request context the way LoadSessionUser
// does. Intended for handler tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds the cookie store.
//
// In production (secure=true) an empty key is an error and cookies are
// Secure + SameSite=None. In dev an empty key is replaced by a random one,
// which logs everyone out on restart.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(sessionKey)
	switch {
	case sessionKey == "" && secure:
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	case sessionKey == "":
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("generate ephemeral session key")
		}
		logger.Warn("session key not set; using an ephemeral key (sessions end on restart)")
	case len(sessionKey) < 32:
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore(key)
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts
	store.MaxAge(opts.MaxAge)

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the request's session. A cookie that fails to decode
// (rotated key, tampering) yields a fresh session.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.log.Debug("session cookie rejected; starting fresh", zap.Error(err))
		return sess, err
	}
	return sess, nil
}

// LoadSessionUser injects the admin into context when the session holds a
// live token. An expired token is dropped from the session on the spot.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.GetSession(r)
		token := getString(sess, tokenKey)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		exp := TokenExpiry(token)
		if !exp.IsZero() && !time.Now().Before(exp) {
			delete(sess.Values, tokenKey)
			delete(sess.Values, profileKey)
			if err := sess.Save(r, w); err != nil {
				sm.log.Warn("clearing expired session failed", zap.Error(err))
			}
			sm.log.Info("admin token expired; session cleared", zap.Time("expired_at", exp))
			next.ServeHTTP(w, r)
			return
		}

		var p models.AdminProfile
		if raw := getString(sess, profileKey); raw != "" {
			if err := json.Unmarshal([]byte(raw), &p); err != nil {
				sm.log.Warn("admin profile in session unreadable", zap.Error(err))
			}
		}
		u := &SessionUser{
			ID:        p.ID,
			Name:      p.DisplayName(),
			Username:  p.Username,
			Email:     p.Email,
			Role:      p.Role,
			ExpiresAt: exp,
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to the login page
//   - HTML: 303 redirect to the login page with ?return=
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		dest := LoginPath + "?return=" + url.QueryEscape(currentURI(r))

		if isHTMX(r) {
			w.Header().Set("HX-Redirect", dest)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if wantsHTML(r) {
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// SignIn stores a successful login in the session.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, res models.LoginResult) error {
	if strings.TrimSpace(res.Token) == "" {
		return errors.New("login result carries no token")
	}
	profile, err := json.Marshal(res.AdminInfo)
	if err != nil {
		return fmt.Errorf("encode admin profile: %w", err)
	}
	sess, _ := sm.GetSession(r)
	sess.Values[tokenKey] = res.Token
	sess.Values[profileKey] = string(profile)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SignOut removes the credentials. The language preference survives.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.GetSession(r)
	delete(sess.Values, tokenKey)
	delete(sess.Values, profileKey)
	return sess.Save(r, w)
}

// Language returns the stored language preference, or "".
func (sm *SessionManager) Language(r *http.Request) string {
	sess, _ := sm.GetSession(r)
	return getString(sess, langKey)
}

// SetLanguage persists the browser's language preference.
func (sm *SessionManager) SetLanguage(w http.ResponseWriter, r *http.Request, code string) error {
	if !fieldmodel.IsSupported(code) {
		return fmt.Errorf("unsupported language %q", code)
	}
	sess, _ := sm.GetSession(r)
	sess.Values[langKey] = fieldmodel.Normalize(code)
	return sess.Save(r, w)
}

// Credentials is the apiclient.CredentialStore view of the session for one
// request. Clear drops the token from the cookie; the response must not
// have been written yet.
func (sm *SessionManager) Credentials(w http.ResponseWriter, r *http.Request) *Credentials {
	return &Credentials{sm: sm, w: w, r: r}
}

// Credentials reads and clears the token held in the cookie session.
type Credentials struct {
	sm *SessionManager
	w  http.ResponseWriter
	r  *http.Request
}

// Token returns the bearer token, or "".
func (c *Credentials) Token() string {
	sess, _ := c.sm.GetSession(c.r)
	return getString(sess, tokenKey)
}

// Clear removes the token and profile.
func (c *Credentials) Clear() error {
	return c.sm.SignOut(c.w, c.r)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Token inspection                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenExpiry reads the exp claim without verifying the signature. Opaque
// or claim-less tokens report the zero time.
func TokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func isHTMX(r *http.Request) bool { return r.Header.Get("HX-Request") == "true" }

func wantsHTML(r *http.Request) bool {
	if isHTMX(r) {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}

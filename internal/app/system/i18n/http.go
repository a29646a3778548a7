package i18n

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"go.uber.org/zap"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Store persists a browser's language choice (the cookie session in the
// web app).
type Store interface {
	Language(r *http.Request) string
	SetLanguage(w http.ResponseWriter, r *http.Request, code string) error
}

type ctxKey struct{}

// WithLanguage returns a context carrying the active language code.
func WithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ctxKey{}, fieldmodel.Normalize(code))
}

// FromContext returns the active language, or the default language.
func FromContext(ctx context.Context) string {
	if code, ok := ctx.Value(ctxKey{}).(string); ok && code != "" {
		return code
	}
	return fieldmodel.DefaultLanguage
}

// FromRequest returns the active language for r.
func FromRequest(r *http.Request) string { return FromContext(r.Context()) }

// Resolve determines the language for a request: an explicit ?lang= wins,
// then the stored preference, then siteDefault. Accept-Language is only
// consulted when no site default is configured. The bool reports whether
// the query parameter should be persisted.
func Resolve(r *http.Request, store Store, siteDefault string) (string, bool) {
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if l, ok := fieldmodel.LanguageByCode(v); ok {
			return l.Code, true
		}
	}
	if store != nil {
		if v := store.Language(r); fieldmodel.IsSupported(v) {
			return fieldmodel.Normalize(v), false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" && siteDefault == "" {
		return fieldmodel.MatchHeader(accept).Code, false
	}
	return fieldmodel.Normalize(siteDefault), false
}

// Middleware resolves the active language once per request and stores it
// in the request context. A language picked through ?lang= is persisted so
// it applies to every later request from the same browser.
func Middleware(store Store, siteDefault string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code, persist := Resolve(r, store, siteDefault)
			if persist && store != nil {
				if err := store.SetLanguage(w, r, code); err != nil {
					logger.Warn("persist language failed", zap.String("lang", code), zap.Error(err))
				}
			}
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), code)))
		})
	}
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Code   string
	Label  string
	URL    string
	Active bool
}

// Options builds the switcher entries for the current page.
func Options(active, path, rawQuery string) []LanguageOption {
	out := make([]LanguageOption, 0, len(fieldmodel.Languages))
	for _, l := range fieldmodel.Languages {
		out = append(out, LanguageOption{
			Code:   l.Code,
			Label:  l.Name,
			URL:    LanguageURL(path, rawQuery, l.Code),
			Active: l.Code == active,
		})
	}
	return out
}

// LanguageURL returns path with the lang parameter set to code.
func LanguageURL(path, rawQuery, code string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}
	q.Set(LangParam, code)
	return (&url.URL{Path: path, RawQuery: q.Encode()}).String()
}

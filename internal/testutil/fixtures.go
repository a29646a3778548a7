package testutil

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// MemCredentials is an in-memory CredentialStore.
type MemCredentials struct {
	mu      sync.Mutex
	token   string
	cleared int
}

// NewMemCredentials returns a store holding token.
func NewMemCredentials(token string) *MemCredentials {
	return &MemCredentials{token: token}
}

func (m *MemCredentials) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MemCredentials) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

// Cleared reports how many times Clear was called.
func (m *MemCredentials) Cleared() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}

// NewClient returns an API client pointed at the fake backend.
func NewClient(t *testing.T, fb *FakeBackend) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(apiclient.Config{BaseURL: fb.URL(), Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	return c
}

// NewSession returns a session on the fake backend with the given token and
// language and no unauthorized hook.
func NewSession(t *testing.T, fb *FakeBackend, token, lang string) *apiclient.Session {
	t.Helper()
	return NewClient(t, fb).Session(NewMemCredentials(token), lang, nil)
}

// NewsRecord returns a news item as the backend stores it.
func NewsRecord(title, titleMr, category string) map[string]any {
	return map[string]any{
		"title":      title,
		"title_mr":   titleMr,
		"title_hi":   "",
		"summary":    "",
		"content":    title + " details",
		"content_mr": "",
		"category":   category,
		"image":      "",
		"createdAt":  "2024-03-05T10:00:00.000Z",
	}
}

// ContactRecord returns an office bearer record.
func ContactRecord(name, position string, order int) map[string]any {
	return map[string]any{
		"name":     name,
		"position": position,
		"phone":    "9876543210",
		"email":    "",
		"order":    order,
	}
}

// Resource converts a record map into a Resource the way the client would
// decode it.
func Resource(id string, fields map[string]any) models.Resource {
	return models.NewResource(id, fields)
}

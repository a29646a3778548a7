package home

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/grampanchayat/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.FakeBackend) {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	return NewHandler(testutil.NewClient(t, fb), zap.NewNop()), fb
}

func TestBuildHome_LoadsEverySection(t *testing.T) {
	h, fb := newTestHandler(t)
	fb.SeedSingleton("village", map[string]any{
		"name_en":     "Shirur",
		"name_mr":     "शिरूर",
		"description": "A village on the river.",
		"sliderImages": []any{
			map[string]any{"_id": "s1", "url": "/s1.jpg", "caption_en": "Temple", "caption_mr": ""},
		},
	})
	for i := 0; i < 5; i++ {
		fb.Seed("news", testutil.NewsRecord("Gram Sabha", "ग्रामसभा", "event"))
	}
	for i := 0; i < 8; i++ {
		fb.Seed("gallery", map[string]any{"title": "Fair", "url": "/g.jpg", "category": "festival", "type": "image"})
	}
	fb.Seed("contacts", testutil.ContactRecord("Sunita Patil", "Sarpanch", 1))

	req := testutil.WithLanguage(httptest.NewRequest("GET", "/", nil), "mr")
	data := h.buildHome(req)

	if data.Error != "" {
		t.Fatalf("unexpected banner %q", data.Error)
	}
	if data.Village.Title != "शिरूर" || data.SiteName != "शिरूर" {
		t.Errorf("village title = %q, site name = %q", data.Village.Title, data.SiteName)
	}
	if len(data.Slides) != 1 || data.Slides[0].Caption != "Temple" {
		t.Errorf("slides = %+v", data.Slides)
	}
	if len(data.News) != newsOnHome || data.News[0].Title != "ग्रामसभा" {
		t.Errorf("news = %d items", len(data.News))
	}
	if len(data.Gallery) != galleryOnHome {
		t.Errorf("gallery = %d items, want %d", len(data.Gallery), galleryOnHome)
	}
	if len(data.Contacts) != 1 {
		t.Errorf("contacts = %d items", len(data.Contacts))
	}

	for _, c := range fb.Calls() {
		if c.Query.Get("lang") != "mr" {
			t.Errorf("%s %s sent without lang=mr", c.Method, c.Path)
		}
		if c.Header.Get("Authorization") != "" {
			t.Errorf("public page sent credentials to %s", c.Path)
		}
	}
}

func TestBuildHome_FailedSectionShowsBanner(t *testing.T) {
	h, fb := newTestHandler(t)
	fb.Seed("news", testutil.NewsRecord("Gram Sabha", "", "event"))
	fb.Respond(http.MethodGet, "/gallery", http.StatusInternalServerError, map[string]any{"message": "Gallery offline"})
	fb.Seed("contacts")

	data := h.buildHome(testutil.WithLanguage(httptest.NewRequest("GET", "/", nil), "en"))

	if data.Error == "" {
		t.Error("expected an error banner")
	}
	if len(data.News) != 1 {
		t.Errorf("news should still load, got %d", len(data.News))
	}
	if data.Village.Title != "" {
		t.Errorf("missing village should render empty, got %q", data.Village.Title)
	}
}

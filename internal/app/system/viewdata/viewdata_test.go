package viewdata_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/display"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/grampanchayat/internal/testutil"
)

func TestNewBaseVM_FlashOnlyForCatalogKeys(t *testing.T) {
	r := testutil.WithLanguage(httptest.NewRequest("GET", "/admin/news?flash=msg.created", nil), "en")
	vm := viewdata.NewBaseVM(r, "nav.news", "/admin")
	if vm.Flash != "Saved successfully." {
		t.Errorf("Flash = %q", vm.Flash)
	}
	if vm.Title != "News" || vm.Lang != "en" {
		t.Errorf("Title=%q Lang=%q", vm.Title, vm.Lang)
	}

	r = testutil.WithLanguage(httptest.NewRequest("GET", "/admin/news?flash=<script>", nil), "en")
	if vm := viewdata.NewBaseVM(r, "nav.news", "/admin"); vm.Flash != "" {
		t.Errorf("arbitrary flash text shown: %q", vm.Flash)
	}
}

func TestNewBaseVM_LoggedInAndLanguages(t *testing.T) {
	r := testutil.NewAuthenticatedRequest("GET", "/about", testutil.AdminUser())
	r = testutil.WithLanguage(r, "mr")
	vm := viewdata.NewBaseVM(r, "nav.about", "/")

	if !vm.IsLoggedIn || vm.UserName != "Gram Sevak" {
		t.Errorf("IsLoggedIn=%v UserName=%q", vm.IsLoggedIn, vm.UserName)
	}
	if len(vm.Languages) != len(fieldmodel.Languages) {
		t.Fatalf("got %d language options", len(vm.Languages))
	}
	for _, o := range vm.Languages {
		if o.Active != (o.Code == "mr") {
			t.Errorf("option %s Active=%v", o.Code, o.Active)
		}
	}
}

func TestWithError(t *testing.T) {
	vm := viewdata.NewBaseVM(testutil.WithLanguage(httptest.NewRequest("GET", "/", nil), "en"), "nav.home", "/")
	vm.WithError("msg.networkError")
	if !strings.HasPrefix(vm.Error, "Could not reach") {
		t.Errorf("Error = %q", vm.Error)
	}
	vm.WithError("Title already exists")
	if vm.Error != "Title already exists" {
		t.Errorf("verbatim message changed: %q", vm.Error)
	}
}

func TestNewCard_FallsBackAndFormats(t *testing.T) {
	res := testutil.Resource("p1", map[string]any{
		"title":       "Road Repair",
		"title_mr":    "",
		"description": "Line one\nLine two",
		"category":    "roads",
		"status":      "in-progress",
		"budget":      250000,
		"image":       "https://cdn.example.in/road.jpg",
	})
	res.CreatedAt = time.Date(2024, 3, 5, 4, 0, 0, 0, time.UTC)

	c := viewdata.NewCard(fieldmodel.MustLookup(models.TypeProjects), res, display.NewFormatter("mr"), "/projects")

	if c.Title != "Road Repair" {
		t.Errorf("Title = %q, want default-language fallback", c.Title)
	}
	if c.Href != "/projects/p1" {
		t.Errorf("Href = %q", c.Href)
	}
	if c.Image != "https://cdn.example.in/road.jpg" {
		t.Errorf("Image = %q", c.Image)
	}
	if !strings.HasPrefix(c.Attrs["budget"], "₹") {
		t.Errorf("budget = %q", c.Attrs["budget"])
	}
	if !strings.Contains(string(c.Rich["description"]), "Line one<br>Line two") {
		t.Errorf("description = %q", c.Rich["description"])
	}
	if c.Created == "" {
		t.Error("Created should be formatted")
	}
}

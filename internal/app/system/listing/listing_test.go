package listing_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/grampanchayat/internal/testutil"
)

func projects() []map[string]any {
	return []map[string]any{
		{"title": "Water tank", "description_mr": "नवीन पाणी टाकी", "category": "water", "status": "completed"},
		{"title": "School roof", "description_mr": "शाळेचे छत", "category": "education", "status": "in-progress"},
		{"title": "Pipeline", "description_mr": "पाणी पुरवठा पाइपलाइन", "category": "water", "status": "in-progress"},
		{"title": "Road", "description_mr": "रस्ता", "category": "roads", "status": "planning"},
		{"title": "WATER audit", "description_mr": "लेखापरीक्षण", "category": "other", "status": "planning"},
	}
}

func loadProjects(t *testing.T, lang string) (*testutil.FakeBackend, *listing.Controller, listing.Collection) {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeProjects, projects()...)
	ctl := listing.New(fieldmodel.MustLookup(models.TypeProjects), testutil.NewSession(t, fb, "tok", lang))
	col, err := ctl.Load(context.Background(), listing.Query{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return fb, ctl, col
}

func titles(c listing.Collection) []string {
	out := make([]string, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Str("title")
	}
	return out
}

func TestLoad_ReplacesCollection(t *testing.T) {
	_, ctl, col := loadProjects(t, "en")
	if col.Len() != 5 || col.Total != 5 {
		t.Fatalf("len=%d total=%d", col.Len(), col.Total)
	}
	if ctl.Collection().Len() != 5 {
		t.Error("controller should hold the loaded collection")
	}
}

func TestQuery_Values(t *testing.T) {
	q := listing.Query{Page: 2, Limit: 10, Status: "pending", Extra: url.Values{"category": {"water"}}}
	v := q.Values()
	if v.Get("page") != "2" || v.Get("limit") != "10" || v.Get("status") != "pending" || v.Get("category") != "water" {
		t.Errorf("values = %v", v)
	}
	if _, ok := v["search"]; ok {
		t.Error("empty search should be left out")
	}
}

func TestFilter_SearchMarathiRegardlessOfLanguage(t *testing.T) {
	for _, lang := range []string{"en", "mr", "hi"} {
		_, _, col := loadProjects(t, lang)
		got := listing.Filter(col, listing.Contains("पाणी", "description_mr"))
		if got.Len() != 2 {
			t.Errorf("lang %s: got %v", lang, titles(got))
		}
	}
}

func TestFilter_CaseInsensitive(t *testing.T) {
	_, _, col := loadProjects(t, "en")
	got := listing.Filter(col, listing.Contains("water", "title"))
	if got.Len() != 2 {
		t.Errorf("got %v", titles(got))
	}
}

func TestFilter_Composition(t *testing.T) {
	_, _, col := loadProjects(t, "en")
	p1 := listing.Equals("category", "water")
	p2 := listing.Equals("status", "in-progress")

	combined := listing.Filter(col, listing.And(p1, p2))
	chained := listing.Filter(listing.Filter(col, p1), p2)
	if combined.Len() != 1 || chained.Len() != 1 || combined.Items[0].ID != chained.Items[0].ID {
		t.Errorf("combined %v chained %v", titles(combined), titles(chained))
	}
	if col.Len() != 5 {
		t.Error("Filter must not modify its input")
	}
}

func TestFilter_BlankValuesMatchAll(t *testing.T) {
	_, _, col := loadProjects(t, "en")
	p := listing.And(listing.Contains("  "), listing.Equals("category", ""), listing.EqualsNumber("year", ""))
	if listing.Filter(col, p).Len() != 5 {
		t.Error("blank filters should match everything")
	}
}

func TestFromQuery(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeAwards,
		map[string]any{"title": "Clean village", "organization": "Zilla Parishad", "category": "village", "year": 2022},
		map[string]any{"title": "Smart village", "organization": "State", "category": "village", "year": 2023},
		map[string]any{"title": "Tree plantation", "organization": "Forest dept", "category": "environment", "year": 2023},
	)
	s := fieldmodel.MustLookup(models.TypeAwards)
	ctl := listing.New(s, testutil.NewSession(t, fb, "", "en"))
	col, err := ctl.Load(context.Background(), listing.Query{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := listing.Filter(col, listing.FromQuery(s, url.Values{"year": {"2023"}, "category": {"village"}}))
	if got.Len() != 1 || got.Items[0].Str("title") != "Smart village" {
		t.Errorf("got %v", titles(got))
	}
	got = listing.Filter(col, listing.FromQuery(s, url.Values{"q": {"zilla"}}))
	if got.Len() != 1 {
		t.Errorf("organization search got %v", titles(got))
	}
	got = listing.Filter(col, listing.FromQuery(s, url.Values{"year": {"last year"}}))
	if got.Len() != 0 {
		t.Errorf("non-numeric year should match nothing, got %v", titles(got))
	}
}

func TestRemove_DeclinedMakesNoRequest(t *testing.T) {
	fb, ctl, col := loadProjects(t, "en")
	fb.ResetCalls()

	after, removed, err := ctl.Remove(context.Background(), col.Items[0].ID, listing.Confirmed(false))
	if err != nil || removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	if fb.CallCount() != 0 {
		t.Errorf("expected zero calls, got %d", fb.CallCount())
	}
	if after.Len() != 5 {
		t.Errorf("collection changed: %d", after.Len())
	}
}

func TestRemove_ConfirmedReloads(t *testing.T) {
	fb, ctl, col := loadProjects(t, "en")
	fb.ResetCalls()
	id := col.Items[1].ID

	var prompt string
	confirm := listing.ConfirmFunc(func(_ context.Context, p string) (bool, error) {
		prompt = p
		return true, nil
	})
	after, removed, err := ctl.Remove(context.Background(), id, confirm)
	if err != nil || !removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	if prompt == "" {
		t.Error("confirmer was not asked")
	}
	calls := fb.Calls()
	if len(calls) != 2 || calls[0].Method != http.MethodDelete || calls[1].Method != http.MethodGet {
		t.Fatalf("calls = %+v", calls)
	}
	if after.Len() != 4 {
		t.Errorf("len = %d", after.Len())
	}
	if _, ok := after.Find(id); ok {
		t.Error("deleted item still listed")
	}
}

func TestDelete_SendsOnlyTheDelete(t *testing.T) {
	fb, ctl, col := loadProjects(t, "en")
	fb.ResetCalls()
	id := col.Items[2].ID

	removed, err := ctl.Delete(context.Background(), id, listing.Confirmed(true))
	if err != nil || !removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	calls := fb.Calls()
	if len(calls) != 1 || calls[0].Method != http.MethodDelete || calls[0].Path != "/projects/"+id {
		t.Fatalf("calls = %+v", calls)
	}
	if ctl.Collection().Len() != 5 {
		t.Error("Delete must not touch the held collection")
	}

	if _, err := ctl.Delete(context.Background(), "", listing.Confirmed(true)); !errors.Is(err, listing.ErrNoID) {
		t.Errorf("empty id err = %v", err)
	}
}

func TestRemove_FailureKeepsLastGood(t *testing.T) {
	fb, ctl, col := loadProjects(t, "en")
	id := col.Items[0].ID
	fb.Respond(http.MethodDelete, "/projects/"+id, http.StatusInternalServerError, map[string]any{"message": "Database unavailable"})

	after, removed, err := ctl.Remove(context.Background(), id, listing.Confirmed(true))
	if removed || apiclient.UserMessage(err) != "Database unavailable" {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	if after.Len() != 5 || ctl.Collection().Len() != 5 {
		t.Error("failed delete must leave the collection as it was")
	}
}

func TestLoad_FailureKeepsLastGood(t *testing.T) {
	fb, ctl, _ := loadProjects(t, "en")
	fb.Respond(http.MethodGet, "/projects", http.StatusBadGateway, map[string]any{"message": "upstream down"})

	col, err := ctl.Load(context.Background(), listing.Query{Page: 2})
	if err == nil {
		t.Fatal("expected error")
	}
	if col.Len() != 5 {
		t.Errorf("len = %d, want last good collection", col.Len())
	}
}

func TestReorder(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeContacts,
		testutil.ContactRecord("Sunita Patil", "Sarpanch", 0),
		testutil.ContactRecord("Ramesh Jadhav", "Deputy Sarpanch", 1),
		testutil.ContactRecord("Anil More", "Gram Sevak", 2),
	)
	ctl := listing.New(fieldmodel.MustLookup(models.TypeContacts), testutil.NewSession(t, fb, "tok", "en"))
	ctx := context.Background()
	col, _ := ctl.Load(ctx, listing.Query{})
	id := col.Items[2].ID

	after, err := ctl.Reorder(ctx, id, models.MoveUp)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	call := fb.Calls()[len(fb.Calls())-2]
	if call.Method != http.MethodPut || call.Path != "/contacts/"+id+"/move" || call.JSON["direction"] != "up" {
		t.Errorf("move call = %s %s %v", call.Method, call.Path, call.JSON)
	}
	if after.Items[1].ID != id {
		t.Errorf("order after move: %v", after.Items)
	}

	if _, err := ctl.Reorder(ctx, id, "sideways"); !errors.Is(err, listing.ErrDirection) {
		t.Errorf("err = %v", err)
	}
	news := listing.New(fieldmodel.MustLookup(models.TypeNews), testutil.NewSession(t, fb, "tok", "en"))
	if _, err := news.Reorder(ctx, "n1", models.MoveUp); !errors.Is(err, listing.ErrNotOrdered) {
		t.Errorf("err = %v", err)
	}
}

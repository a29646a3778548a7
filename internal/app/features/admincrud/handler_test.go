package admincrud

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/draft"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/grampanchayat/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, fb *testutil.FakeBackend, resourceType string) *Handler {
	t.Helper()
	logger := zap.NewNop()
	return NewHandler(
		testutil.NewClient(t, fb),
		testutil.NewSessionManager(t),
		resourceType,
		true,
		uierrors.NewErrorLogger(logger),
		auditlog.New(logger, auditlog.Config{}),
		logger,
	)
}

func withID(id string, rec map[string]any) map[string]any {
	rec["_id"] = id
	return rec
}

func adminGet(target string) *http.Request {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.AdminUser())
	return testutil.WithLanguage(req, "en")
}

func adminPost(target string, form url.Values) *http.Request {
	req := testutil.WithUser(testutil.NewFormRequest(target, form), testutil.AdminUser())
	return testutil.WithLanguage(req, "en")
}

func TestBuildList_SearchAndFilter(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeNews,
		withID("n1", testutil.NewsRecord("Water tank opened", "पाण्याची टाकी", "news")),
		withID("n2", testutil.NewsRecord("Gram sabha on Monday", "", "event")),
		withID("n3", testutil.NewsRecord("Water supply schedule", "", "announcement")),
	)
	h := newTestHandler(t, fb, models.TypeNews)

	data := h.buildList(httptest.NewRecorder(), adminGet("/admin/news"))
	if len(data.Rows) != 3 || data.Filtered {
		t.Fatalf("unfiltered rows = %d filtered=%v", len(data.Rows), data.Filtered)
	}
	if data.Rows[0].Cells[0] != "Water tank opened" || data.Rows[0].Cells[1] != "News" {
		t.Errorf("row cells = %v", data.Rows[0].Cells)
	}

	// a Marathi term finds the record through its Marathi title
	data = h.buildList(httptest.NewRecorder(), adminGet("/admin/news?q="+url.QueryEscape("टाकी")))
	if len(data.Rows) != 1 || data.Rows[0].ID != "n1" {
		t.Errorf("marathi search rows = %+v", data.Rows)
	}

	data = h.buildList(httptest.NewRecorder(), adminGet("/admin/news?q=water&category=announcement"))
	if len(data.Rows) != 1 || data.Rows[0].ID != "n3" || !data.Filtered {
		t.Errorf("search+filter rows = %+v", data.Rows)
	}
	if data.Total != 3 {
		t.Errorf("Total = %d, want 3 before filtering", data.Total)
	}
}

func TestBuildList_BackendDown(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	h := newTestHandler(t, fb, models.TypeNews)
	fb.Server.Close()

	data := h.buildList(httptest.NewRecorder(), adminGet("/admin/news"))
	if data.Error != "Could not reach the server. Please try again later." {
		t.Errorf("banner = %q", data.Error)
	}
	if len(data.Rows) != 0 {
		t.Errorf("rows = %d", len(data.Rows))
	}
}

func TestBuildList_MoveEnds(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeContacts,
		withID("c1", testutil.ContactRecord("Sunita Patil", "Sarpanch", 0)),
		withID("c2", testutil.ContactRecord("Ramesh Jadhav", "Up-Sarpanch", 1)),
		withID("c3", testutil.ContactRecord("Anil More", "Gram Sevak", 2)),
	)
	h := newTestHandler(t, fb, models.TypeContacts)

	data := h.buildList(httptest.NewRecorder(), adminGet("/admin/contacts"))
	if !data.Ordered {
		t.Fatal("contacts should be ordered")
	}
	if !data.Rows[0].First || data.Rows[0].Last {
		t.Errorf("first row flags = %+v", data.Rows[0])
	}
	if !data.Rows[2].Last || data.Rows[1].First || data.Rows[1].Last {
		t.Errorf("row flags = %+v %+v", data.Rows[1], data.Rows[2])
	}
}

func TestHandleCreate_Redirects(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeNews)
	h := newTestHandler(t, fb, models.TypeNews)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, adminPost("/admin/news", url.Values{
		"title":    {"  New well dug  "},
		"title_mr": {"नवीन विहीर"},
		"content":  {"The new well serves ward 3."},
		"category": {"development"},
	}))

	rec.AssertRedirect(t, "/admin/news?flash=msg.created")
	recs := fb.Records(models.TypeNews)
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0]["title"] != "New well dug" || recs[0]["title_mr"] != "नवीन विहीर" || recs[0]["title_hi"] != "" {
		t.Errorf("stored record = %v", recs[0])
	}
}

func TestSave_ValidationBlocksNetwork(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeNews)
	h := newTestHandler(t, fb, models.TypeNews)

	req := adminPost("/admin/news", url.Values{
		"title_mr": {"फक्त मराठी"},
		"category": {"gossip"},
	})
	if err := req.ParseForm(); err != nil {
		t.Fatal(err)
	}
	d, errs, err := h.save(httptest.NewRecorder(), req, draft.InitCreate(h.Schema))

	if err == nil || errs == nil {
		t.Fatal("expected validation errors")
	}
	for key, want := range map[string]string{"title": "msg.required", "content": "msg.required", "category": "msg.invalidOption"} {
		if errs[key] != want {
			t.Errorf("errs[%s] = %q, want %q", key, errs[key], want)
		}
	}
	if d.Text("title_mr") != "फक्त मराठी" {
		t.Error("entered values must survive for the re-rendered form")
	}
	if fb.CallCount() != 0 {
		t.Errorf("backend calls = %d, want 0", fb.CallCount())
	}
}

func TestHandleUpdate(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	rec := withID("n1", testutil.NewsRecord("Old title", "", "news"))
	rec["updatedAt"] = "2023-12-01T00:00:00Z"
	fb.Seed(models.TypeNews, rec)
	h := newTestHandler(t, fb, models.TypeNews)

	req := adminPost("/admin/news/n1", url.Values{
		"loadedAt": {"2023-12-01T00:00:00Z"},
		"title":    {"Fresh title"},
		"content":  {"Body"},
		"category": {"update"},
	})
	w := testutil.NewRecorder()
	h.HandleUpdate(w, testutil.WithChiURLParam(req, "id", "n1"))

	w.AssertRedirect(t, "/admin/news?flash=msg.updated")
	if got := fb.Records(models.TypeNews)[0]["title"]; got != "Fresh title" {
		t.Errorf("title = %v", got)
	}
	last, _ := fb.LastCall()
	if last.Method != http.MethodPut || last.Path != "/news/n1" {
		t.Errorf("last call = %s %s", last.Method, last.Path)
	}
}

func TestSave_StaleRecord(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	rec := withID("n1", testutil.NewsRecord("Old title", "", "news"))
	rec["updatedAt"] = "2023-12-01T00:00:00Z"
	fb.Seed(models.TypeNews, rec)
	h := newTestHandler(t, fb, models.TypeNews)

	d := h.editDraft("n1", "2023-12-01T00:00:00Z")
	fb.Touch(models.TypeNews, "n1")

	req := adminPost("/admin/news/n1", url.Values{
		"title":    {"Mine"},
		"content":  {"Body"},
		"category": {"news"},
	})
	if err := req.ParseForm(); err != nil {
		t.Fatal(err)
	}
	_, _, err := h.save(httptest.NewRecorder(), req, d)

	if !errors.Is(err, draft.ErrStale) {
		t.Fatalf("err = %v, want ErrStale", err)
	}
	if got := fb.Records(models.TypeNews)[0]["title"]; got != "Old title" {
		t.Errorf("stale save overwrote title: %v", got)
	}
}

func TestHandleCreate_Upload(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeGallery)
	h := newTestHandler(t, fb, models.TypeGallery)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"title": "Diwali lamps", "category": "festival", "type": "image"} {
		mw.WriteField(k, v)
	}
	fw, _ := mw.CreateFormFile("file", "lamps.jpg")
	fw.Write([]byte("jpeg-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/gallery", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithLanguage(testutil.WithUser(req, testutil.AdminUser()), "en")

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertRedirect(t, "/admin/gallery?flash=msg.created")
	last, _ := fb.LastCall()
	if last.ContentType != "multipart/form-data" || string(last.Files["file"]) != "jpeg-bytes" {
		t.Errorf("upload call = %s files=%v", last.ContentType, last.Files)
	}
	if last.Form["title"] != "Diwali lamps" {
		t.Errorf("title field = %q", last.Form["title"])
	}
}

func TestHandleDelete(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeNews, withID("n1", testutil.NewsRecord("Old", "", "news")))
	h := newTestHandler(t, fb, models.TypeNews)

	// without confirmation nothing is sent
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(adminPost("/admin/news/n1/delete", nil), "id", "n1"))
	rec.AssertRedirect(t, "/admin/news")
	if fb.CallCount() != 0 {
		t.Fatalf("unconfirmed delete made %d calls", fb.CallCount())
	}

	rec = testutil.NewRecorder()
	req := adminPost("/admin/news/n1/delete", url.Values{"confirm": {"yes"}})
	h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", "n1"))
	rec.AssertRedirect(t, "/admin/news?flash=msg.deleted")
	if n := len(fb.Records(models.TypeNews)); n != 0 {
		t.Errorf("records after delete = %d", n)
	}
	// the redirect reloads the list, so the handler itself must not
	if calls := fb.Calls(); len(calls) != 1 || calls[0].Method != http.MethodDelete || calls[0].Path != "/news/n1" {
		t.Errorf("calls = %+v", calls)
	}
}

func TestHandleMove(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(models.TypeContacts,
		withID("c1", testutil.ContactRecord("Sunita Patil", "Sarpanch", 0)),
		withID("c2", testutil.ContactRecord("Ramesh Jadhav", "Up-Sarpanch", 1)),
	)
	h := newTestHandler(t, fb, models.TypeContacts)

	rec := testutil.NewRecorder()
	req := adminPost("/admin/contacts/c1/move", url.Values{"direction": {"down"}})
	h.HandleMove(rec, testutil.WithChiURLParam(req, "id", "c1"))

	rec.AssertRedirect(t, "/admin/contacts?flash=msg.moved")
	recs := fb.Records(models.TypeContacts)
	if recs[0]["_id"] != "c2" || recs[1]["_id"] != "c1" {
		t.Errorf("order after move = %v, %v", recs[0]["_id"], recs[1]["_id"])
	}
}

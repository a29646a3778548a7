package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/grampanchayat/internal/testutil"

	messagestore "github.com/dalemusser/grampanchayat/internal/app/store/messages"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

type harness struct {
	app *App
	fb  *testutil.FakeBackend
	out *bytes.Buffer
}

func newHarness(t *testing.T, lang string) *harness {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	out := &bytes.Buffer{}
	app := &App{
		Config: Config{
			APIURL:      fb.URL(),
			Lang:        lang,
			Credentials: filepath.Join(t.TempDir(), "credentials.json"),
			Timeout:     5 * time.Second,
		},
		Out: out,
	}
	return &harness{app: app, fb: fb, out: out}
}

func (h *harness) signIn(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, NewFileCredentials(h.app.Config.Credentials).Save(models.LoginResult{
		Token:     token,
		AdminInfo: models.AdminProfile{Username: "admin", Name: "Sarpanch", Role: "admin"},
	}))
}

func (h *harness) run(args ...string) error {
	cmd := NewRootCmd(h.app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func declineAll() listing.Confirmer { return listing.Confirmed(false) }

func TestLoadConfig_DotenvThenEnvironment(t *testing.T) {
	for _, k := range []string{"PANCHAYAT_API_URL", "PANCHAYAT_LANG", "PANCHAYAT_CREDENTIALS", "PANCHAYAT_TIMEOUT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("PANCHAYAT_API_URL", "http://env.example/api")

	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("PANCHAYAT_API_URL=http://file.example/api\nPANCHAYAT_LANG=HI\nPANCHAYAT_TIMEOUT=3s\n"), 0o600))

	cfg, err := LoadConfig(dotenv, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://env.example/api", cfg.APIURL, "environment wins over .env")
	assert.Equal(t, "hi", cfg.Lang)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "credentials.json", filepath.Base(cfg.Credentials))
}

func TestLoadConfig_UnsupportedLanguage(t *testing.T) {
	t.Setenv("PANCHAYAT_LANG", "fr")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.env"))
	assert.ErrorContains(t, err, "unsupported language")
}

func TestFileCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "creds.json")
	c := NewFileCredentials(path)
	assert.Empty(t, c.Token())

	require.NoError(t, c.Save(models.LoginResult{Token: "tok-1", AdminInfo: models.AdminProfile{Name: "Sarpanch"}}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reread := NewFileCredentials(path)
	assert.Equal(t, "tok-1", reread.Token())
	p, ok := reread.Profile()
	assert.True(t, ok)
	assert.Equal(t, "Sarpanch", p.DisplayName())

	require.NoError(t, reread.Clear())
	require.NoError(t, reread.Clear(), "clearing twice is fine")
	assert.Empty(t, reread.Token())
	assert.NoFileExists(t, path)
}

func TestLogin_SavesToken(t *testing.T) {
	h := newHarness(t, "en")
	h.fb.Respond(http.MethodPost, "/admin/login", http.StatusOK, map[string]any{
		"token":     "tok-abc",
		"adminInfo": map[string]any{"username": "admin", "name": "Sarpanch"},
	})
	h.app.ReadPassword = func(string) (string, error) { return "s3cret", nil }

	require.NoError(t, h.run("login", "-u", " admin "))

	call, ok := h.fb.LastCall()
	require.True(t, ok)
	user, _ := call.FormOrJSON("username")
	pass, _ := call.FormOrJSON("password")
	assert.Equal(t, "admin", user)
	assert.Equal(t, "s3cret", pass)
	assert.Empty(t, call.Header.Get("Authorization"))

	assert.Equal(t, "tok-abc", NewFileCredentials(h.app.Config.Credentials).Token())
	assert.Contains(t, h.out.String(), "Signed in as Sarpanch")
}

func TestLogin_Rejected(t *testing.T) {
	h := newHarness(t, "en")
	h.fb.Respond(http.MethodPost, "/admin/login", http.StatusBadRequest, map[string]any{"message": "Invalid credentials"})
	h.app.ReadPassword = func(string) (string, error) { return "wrong", nil }

	err := h.run("login", "--username", "admin")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", describe(err))
	assert.Empty(t, NewFileCredentials(h.app.Config.Credentials).Token())
}

func TestCommands_RequireLogin(t *testing.T) {
	h := newHarness(t, "en")
	h.fb.Seed(models.TypeNews, testutil.NewsRecord("Gram Sabha", "ग्रामसभा", "announcement"))

	assert.ErrorIs(t, h.run("list", "news"), ErrNotSignedIn)
	assert.ErrorIs(t, h.run("village", "reset", "--yes"), ErrNotSignedIn)
	assert.Zero(t, h.fb.CallCount())
}

func TestExpiredTokenIsDropped(t *testing.T) {
	h := newHarness(t, "en")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "a1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	h.signIn(t, tok)

	assert.ErrorIs(t, h.run("list", "news"), ErrNotSignedIn)
	assert.Zero(t, h.fb.CallCount())
	assert.NoFileExists(t, h.app.Config.Credentials)
}

func TestList_ResolvesLanguageAndFilters(t *testing.T) {
	h := newHarness(t, "mr")
	h.signIn(t, "tok")
	h.fb.Seed(models.TypeNews,
		testutil.NewsRecord("Gram Sabha on Monday", "सोमवारी ग्रामसभा", "announcement"),
		testutil.NewsRecord("Water tank repaired", "पाण्याची टाकी दुरुस्त", "development"),
	)

	require.NoError(t, h.run("list", "news", "--search", "gram sabha"))

	out := h.out.String()
	assert.Contains(t, out, "सोमवारी ग्रामसभा")
	assert.NotContains(t, out, "पाण्याची टाकी")

	call, ok := h.fb.LastCall()
	require.True(t, ok)
	assert.Equal(t, "Bearer tok", call.Header.Get("Authorization"))
	assert.Equal(t, "mr", call.Query.Get("lang"))
}

func TestList_UnknownType(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")

	assert.ErrorContains(t, h.run("list", "village"), "unknown resource type")
	assert.ErrorContains(t, h.run("delete", "posts", "p1", "--yes"), "unknown resource type")
	assert.Zero(t, h.fb.CallCount())
}

func TestDelete_DeclinedSendsNothing(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")
	h.fb.Seed(models.TypeNews, map[string]any{"_id": "n1", "title": "Old notice"})
	h.app.Confirm = declineAll()

	require.NoError(t, h.run("delete", "news", "n1"))

	assert.Zero(t, h.fb.CallCount())
	assert.Len(t, h.fb.Records(models.TypeNews), 1)
	assert.Contains(t, h.out.String(), "Cancelled")
}

func TestDelete_YesReloads(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")
	h.fb.Seed(models.TypeNews,
		map[string]any{"_id": "n1", "title": "Old notice"},
		map[string]any{"_id": "n2", "title": "New notice"},
	)
	h.app.Confirm = declineAll()

	require.NoError(t, h.run("--yes", "delete", "news", "n1"))

	calls := h.fb.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/news/n1", calls[0].Path)
	assert.Equal(t, http.MethodGet, calls[1].Method)
	assert.Len(t, h.fb.Records(models.TypeNews), 1)
	assert.Contains(t, h.out.String(), "1 left")
}

func TestMove(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")
	h.fb.Seed(models.TypeContacts,
		map[string]any{"_id": "c1", "name": "Sarpanch", "order": 0},
		map[string]any{"_id": "c2", "name": "Gram Sevak", "order": 1},
	)

	require.NoError(t, h.run("move", "contacts", "c2", "up"))

	recs := h.fb.Records(models.TypeContacts)
	assert.Equal(t, "c2", recs[0]["_id"])
	call := h.fb.Calls()[0]
	dir, _ := call.FormOrJSON("direction")
	assert.Equal(t, "/contacts/c2/move", call.Path)
	assert.Equal(t, "up", dir)

	h.fb.ResetCalls()
	assert.ErrorIs(t, h.run("move", "contacts", "c1", "sideways"), listing.ErrDirection)
	assert.ErrorIs(t, h.run("move", "news", "n1", "up"), listing.ErrNotOrdered)
	assert.Zero(t, h.fb.CallCount())
}

func TestMessagesList(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")
	h.fb.Respond(http.MethodGet, "/contact-messages/stats", http.StatusOK, map[string]any{
		"data": map[string]any{"total": 3, "unread": 2, "pending": 1, "replied": 1},
	})
	h.fb.Respond(http.MethodGet, "/contact-messages", http.StatusOK, map[string]any{
		"success": true,
		"data": []map[string]any{
			{"_id": "m1", "name": "Asha Patil", "email": "asha@example.com", "status": "pending"},
		},
		"total": 1, "totalPages": 1, "page": 1,
	})

	require.NoError(t, h.run("messages", "list", "--status", "pending", "-s", "asha"))

	out := h.out.String()
	assert.Contains(t, out, "3 total, 2 unread, 1 pending, 1 replied")
	assert.Contains(t, out, "Asha Patil")

	var listCall testutil.Call
	for _, c := range h.fb.Calls() {
		if c.Path == "/contact-messages" {
			listCall = c
		}
	}
	assert.Equal(t, "pending", listCall.Query.Get("status"))
	assert.Equal(t, "asha", listCall.Query.Get("search"))
	assert.Equal(t, "20", listCall.Query.Get("limit"))
}

func TestMessagesList_BadStatus(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")

	assert.ErrorIs(t, h.run("messages", "list", "--status", "archived"), messagestore.ErrStatus)
	assert.Zero(t, h.fb.CallCount())
}

func TestMessagesReplyAndStatus(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")
	h.fb.Respond(http.MethodPut, "/contact-messages/m1", http.StatusOK, map[string]any{"success": true})

	require.NoError(t, h.run("messages", "reply", "m1", "Thank", "you"))
	call, _ := h.fb.LastCall()
	reply, _ := call.FormOrJSON("adminReply")
	status, _ := call.FormOrJSON("status")
	assert.Equal(t, "Thank you", reply)
	assert.Equal(t, "replied", status)

	require.NoError(t, h.run("msg", "status", "m1", "closed"))
	call, _ = h.fb.LastCall()
	status, _ = call.FormOrJSON("status")
	assert.Equal(t, "closed", status)

	h.fb.ResetCalls()
	assert.ErrorIs(t, h.run("messages", "status", "m1", "archived"), messagestore.ErrStatus)
	assert.Zero(t, h.fb.CallCount())
}

func TestVillageReset(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")
	h.fb.SeedSingleton(models.TypeVillage, map[string]any{"name_en": "Shivapur"})
	h.app.Confirm = declineAll()

	require.NoError(t, h.run("village", "reset"))
	assert.Zero(t, h.fb.CallCount())

	require.NoError(t, h.run("village", "reset", "-y"))
	call, ok := h.fb.LastCall()
	require.True(t, ok)
	assert.Equal(t, http.MethodDelete, call.Method)
	assert.Equal(t, "/village", call.Path)
	assert.Contains(t, h.out.String(), "Village profile reset")
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")
	h.fb.Respond(http.MethodGet, "/news", http.StatusUnauthorized, map[string]any{"message": "Token expired"})

	err := h.run("list", "news")
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindAuth))
	assert.Empty(t, NewFileCredentials(h.app.Config.Credentials).Token())

	assert.ErrorIs(t, h.run("list", "news"), ErrNotSignedIn)
}

func TestWhoamiAndLogout(t *testing.T) {
	h := newHarness(t, "en")
	h.signIn(t, "tok")

	require.NoError(t, h.run("whoami"))
	assert.Contains(t, h.out.String(), "Sarpanch (admin)")

	require.NoError(t, h.run("logout"))
	assert.ErrorIs(t, h.run("whoami"), ErrNotSignedIn)
}

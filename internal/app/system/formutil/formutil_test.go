package formutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/grampanchayat/internal/app/system/limits"
)

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for k, data := range files {
		fw, err := mw.CreateFormFile(k, k+".png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/admin/news", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestParseAndFiles(t *testing.T) {
	req := multipartRequest(t,
		map[string]string{"title": "Water tank"},
		map[string][]byte{"image": []byte("\x89PNG fake")},
	)
	if err := Parse(httptest.NewRecorder(), req, true); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := req.PostForm.Get("title"); got != "Water tank" {
		t.Errorf("title = %q", got)
	}

	files, err := Files(req, "image", "file")
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	f, ok := files["image"]
	if !ok {
		t.Fatal("image missing")
	}
	if f.Field != "image" || f.Name != "image.png" || string(f.Data) != "\x89PNG fake" {
		t.Errorf("file = %+v", f)
	}
	if _, ok := files["file"]; ok {
		t.Error("a key without an upload must be absent")
	}
}

func TestParse_URLEncoded(t *testing.T) {
	form := url.Values{"name": {"Asha"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := Parse(httptest.NewRecorder(), req, false); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	files, err := Files(req, "image")
	if err != nil || len(files) != 0 {
		t.Errorf("Files on a plain form = %v, %v", files, err)
	}
}

func TestParse_TooLarge(t *testing.T) {
	limits.SetUploadMB(1)
	defer limits.SetUploadMB(0)

	req := multipartRequest(t, nil, map[string][]byte{"image": bytes.Repeat([]byte("x"), 2<<20)})
	if err := Parse(httptest.NewRecorder(), req, true); err != ErrTooLarge {
		t.Errorf("Parse err = %v, want ErrTooLarge", err)
	}
}

package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// File is a binary attachment carried in a request body.
type File struct {
	Field       string // form field name, e.g. "image"
	Name        string // original file name
	ContentType string
	Data        []byte
}

type entry struct {
	key   string
	value any
}

// Body is an ordered request payload. It is encoded as multipart form data
// when at least one File is attached and as JSON otherwise; the choice is
// made per call from the payload itself.
type Body struct {
	entries []entry
	files   []File
}

// NewBody returns an empty payload.
func NewBody() *Body { return &Body{} }

// Set stores a scalar value, replacing any earlier value for key.
func (b *Body) Set(key string, value any) *Body {
	for i := range b.entries {
		if b.entries[i].key == key {
			b.entries[i].value = value
			return b
		}
	}
	b.entries = append(b.entries, entry{key: key, value: value})
	return b
}

// Attach adds a file. Empty files are ignored.
func (b *Body) Attach(f File) *Body {
	if len(f.Data) == 0 {
		return b
	}
	b.files = append(b.files, f)
	return b
}

// Get returns the scalar stored under key.
func (b *Body) Get(key string) (any, bool) {
	for _, e := range b.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Keys returns scalar keys in insertion order.
func (b *Body) Keys() []string {
	out := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.key)
	}
	return out
}

// Files returns the attachments.
func (b *Body) Files() []File { return b.files }

// HasFiles reports whether the payload carries binary content.
func (b *Body) HasFiles() bool { return len(b.files) > 0 }

// Map returns the scalar values as a map (handy for JSON and tests).
func (b *Body) Map() map[string]any {
	out := make(map[string]any, len(b.entries))
	for _, e := range b.entries {
		out[e.key] = e.value
	}
	return out
}

func (b *Body) encode() (io.Reader, string, error) {
	if !b.HasFiles() {
		raw, err := json.Marshal(b.Map())
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, e := range b.entries {
		if err := mw.WriteField(e.key, formValue(e.value)); err != nil {
			return nil, "", fmt.Errorf("encode form field %s: %w", e.key, err)
		}
	}
	for _, f := range b.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Name)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("encode file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("encode file %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// formValue renders a scalar the way a browser form would submit it.
func formValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

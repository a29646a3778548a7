package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Resource is a server-owned content record (news item, project, scheme, ...).
//
// The backend returns flat JSON objects whose localized attributes are keyed
// by suffix (title, title_mr, title_hi). Resource keeps every attribute in
// Fields so the field model, not this type, decides what a record contains.
// ID, CreatedAt and UpdatedAt are server-assigned and read-only to clients.
type Resource struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Wire keys the backend uses for identity and timestamps.
const (
	KeyID        = "_id"
	KeyAltID     = "id"
	KeyCreatedAt = "createdAt"
	KeyUpdatedAt = "updatedAt"
)

// NewResource builds a Resource from a plain field map (used by tests and
// by the draft package when echoing a submitted payload).
func NewResource(id string, fields map[string]any) Resource {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Resource{ID: id, Fields: cp}
}

// UnmarshalJSON splits identity and timestamps out of the flat object and
// keeps everything else in Fields. Numbers are kept as json.Number so years
// and ordering values round-trip exactly.
func (r *Resource) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*r = Resource{}
		return nil
	}

	out := Resource{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case KeyID, KeyAltID:
			if out.ID == "" || k == KeyID {
				out.ID = stringOf(v)
			}
		case KeyCreatedAt:
			out.CreatedAt, _ = parseTime(stringOf(v))
		case KeyUpdatedAt:
			out.UpdatedAt, _ = parseTime(stringOf(v))
		default:
			out.Fields[k] = v
		}
	}
	*r = out
	return nil
}

// MarshalJSON writes the record back in the backend's flat shape.
func (r Resource) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		flat[k] = v
	}
	if r.ID != "" {
		flat[KeyID] = r.ID
	}
	if !r.CreatedAt.IsZero() {
		flat[KeyCreatedAt] = r.CreatedAt.Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		flat[KeyUpdatedAt] = r.UpdatedAt.Format(time.RFC3339)
	}
	return json.Marshal(flat)
}

// Has reports whether the attribute is present at all (even if empty).
func (r Resource) Has(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// Str returns the attribute rendered as a string; absent or null is "".
func (r Resource) Str(name string) string {
	return stringOf(r.Fields[name])
}

// Num returns the attribute as a float64 when it holds a number or a
// numeric string.
func (r Resource) Num(name string) (float64, bool) {
	switch v := r.Fields[name].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// Bool returns the attribute as a boolean ("true"/"on"/"1" count as true).
func (r Resource) Bool(name string) bool {
	switch v := r.Fields[name].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}

// Time parses a date or timestamp attribute.
func (r Resource) Time(name string) (time.Time, bool) {
	t, err := parseTime(r.Str(name))
	return t, err == nil
}

// Objects decodes a nested array of objects (e.g. village slider images).
func (r Resource) Objects(name string) []Resource {
	list, ok := r.Fields[name].([]any)
	if !ok {
		return nil
	}
	out := make([]Resource, 0, len(list))
	for _, item := range list {
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var nested Resource
		if err := json.Unmarshal(b, &nested); err != nil {
			continue
		}
		out = append(out, nested)
	}
	return out
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

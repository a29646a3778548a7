package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Call is one request received by a FakeBackend.
type Call struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	ContentType string // media type without parameters
	Body        []byte
	JSON        map[string]any    // decoded JSON body, if any
	Form        map[string]string // multipart scalar fields, if any
	Files       map[string][]byte // multipart file parts by field name
}

// FakeBackend is an in-process stand-in for the REST backend. It records
// every call and serves either explicit route handlers or in-memory
// collections seeded with Seed.
type FakeBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	calls       []Call
	routes      map[string]http.HandlerFunc
	collections map[string][]map[string]any
	singletons  map[string]map[string]any
	nextID      int
	clock       time.Time
}

// NewFakeBackend starts a fake backend that is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		routes:      make(map[string]http.HandlerFunc),
		collections: make(map[string][]map[string]any),
		singletons:  make(map[string]map[string]any),
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to configure clients with.
func (f *FakeBackend) URL() string { return f.Server.URL }

// Handle registers an explicit handler for "METHOD /path". Explicit
// handlers take precedence over seeded collections.
func (f *FakeBackend) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// Respond registers a fixed JSON response.
func (f *FakeBackend) Respond(method, path string, status int, body any) {
	f.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

// Seed installs an in-memory collection served under /<resourceType>.
// Records without an _id get one assigned.
func (f *FakeBackend) Seed(resourceType string, records ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.collections[resourceType]
	for _, rec := range records {
		cp := copyMap(rec)
		if _, ok := cp["_id"]; !ok {
			cp["_id"] = f.newIDLocked()
		}
		if _, ok := cp["updatedAt"]; !ok {
			cp["updatedAt"] = f.tickLocked()
		}
		list = append(list, cp)
	}
	f.collections[resourceType] = list
}

// SeedSingleton installs a singleton record served at /<resourceType>.
func (f *FakeBackend) SeedSingleton(resourceType string, record map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.singletons[resourceType] = copyMap(record)
}

// Records returns a snapshot of a seeded collection.
func (f *FakeBackend) Records(resourceType string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.collections[resourceType]))
	for _, rec := range f.collections[resourceType] {
		out = append(out, copyMap(rec))
	}
	return out
}

// Touch bumps a record's updatedAt as if another admin had saved it.
func (f *FakeBackend) Touch(resourceType, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.collections[resourceType] {
		if rec["_id"] == id {
			rec["updatedAt"] = f.tickLocked()
		}
	}
}

// Calls returns every recorded call.
func (f *FakeBackend) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many requests were received.
func (f *FakeBackend) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// LastCall returns the most recent call.
func (f *FakeBackend) LastCall() (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}, false
	}
	return f.calls[len(f.calls)-1], true
}

// ResetCalls forgets recorded calls.
func (f *FakeBackend) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	call := record(r)
	f.mu.Lock()
	f.calls = append(f.calls, call)
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if ok {
		r.Body = io.NopCloser(bytes.NewReader(call.Body))
		h(w, r)
		return
	}
	f.serveCollection(w, r, call)
}

func (f *FakeBackend) serveCollection(w http.ResponseWriter, r *http.Request, call Call) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	rt := parts[0]

	f.mu.Lock()
	defer f.mu.Unlock()

	if single, ok := f.singletons[rt]; ok && len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": single})
		case http.MethodPut:
			for k, v := range payload(call) {
				single[k] = v
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": single})
		case http.MethodDelete:
			f.singletons[rt] = map[string]any{}
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		}
		return
	}

	list, ok := f.collections[rt]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Route not found"})
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		data := list
		if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 && lim < len(data) {
			data = data[:lim]
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data, "total": len(list), "totalPages": 1})

	case len(parts) == 1 && r.Method == http.MethodPost:
		rec := payload(call)
		rec["_id"] = f.newIDLocked()
		rec["createdAt"] = f.tickLocked()
		rec["updatedAt"] = rec["createdAt"]
		for field := range call.Files {
			rec[field] = "/uploads/" + field + "-" + rec["_id"].(string)
		}
		f.collections[rt] = append(list, rec)
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": rec})

	case len(parts) == 2:
		idx := indexOf(list, parts[1])
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Not found"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list[idx]})
		case http.MethodPut, http.MethodPatch:
			for k, v := range payload(call) {
				list[idx][k] = v
			}
			for field := range call.Files {
				list[idx][field] = "/uploads/" + field + "-" + parts[1]
			}
			list[idx]["updatedAt"] = f.tickLocked()
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list[idx]})
		case http.MethodDelete:
			f.collections[rt] = append(list[:idx:idx], list[idx+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		}

	case len(parts) == 3 && parts[2] == "move" && r.Method == http.MethodPut:
		idx := indexOf(list, parts[1])
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Not found"})
			return
		}
		dir, _ := payload(call)["direction"].(string)
		j := idx - 1
		if dir == "down" {
			j = idx + 1
		}
		if j >= 0 && j < len(list) {
			list[idx], list[j] = list[j], list[idx]
		}
		for i, rec := range list {
			rec["order"] = i
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Route not found"})
	}
}

func (f *FakeBackend) newIDLocked() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *FakeBackend) tickLocked() string {
	f.clock = f.clock.Add(time.Minute)
	return f.clock.Format(time.RFC3339)
}

func record(r *http.Request) Call {
	body, _ := io.ReadAll(r.Body)
	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	c := Call{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.Query(),
		Header:      r.Header.Clone(),
		ContentType: mediaType,
		Body:        body,
	}
	switch mediaType {
	case "application/json":
		_ = json.Unmarshal(body, &c.JSON)
	case "multipart/form-data":
		c.Form = map[string]string{}
		c.Files = map[string][]byte{}
		mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(part)
			if part.FileName() != "" {
				c.Files[part.FormName()] = data
			} else {
				c.Form[part.FormName()] = string(data)
			}
		}
	}
	return c
}

// payload returns the scalar fields of a call regardless of encoding.
func payload(c Call) map[string]any {
	out := map[string]any{}
	for k, v := range c.JSON {
		out[k] = v
	}
	for k, v := range c.Form {
		out[k] = v
	}
	return out
}

// FormOrJSON returns the value of a scalar field regardless of encoding.
func (c Call) FormOrJSON(key string) (any, bool) {
	v, ok := payload(c)[key]
	return v, ok
}

// Keys returns the scalar field names of the call, sorted.
func (c Call) Keys() []string {
	p := payload(c)
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func indexOf(list []map[string]any, id string) int {
	for i, rec := range list {
		if rec["_id"] == id {
			return i
		}
	}
	return -1
}

func copyMap(m map[string]any) map[string]any {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

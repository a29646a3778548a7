// Package apiclient talks to the Gram Panchayat REST backend.
//
// A Client is shared by the whole process. Each request handler binds it to
// the caller's credentials and active language with Client.Session, so the
// token and language are passed in explicitly rather than read from globals.
//
// Session calls never retry. A 401 from the backend clears the bound
// credentials and fires the session's unauthorized hook before the error
// is returned.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every backend call unless Config.Timeout is set.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// CredentialStore is the accessor for the session token. The web app
// backs it with the cookie session, the CLI with a file, tests with memory.
type CredentialStore interface {
	Token() string
	Clear() error
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional; built from Timeout when nil
	Logger     *zap.Logger
}

// Client holds the process-wide connection settings.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// New validates the configuration and returns a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("apiclient: base URL is empty")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base URL must be http or https, got %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{base: base, http: hc, log: logger}, nil
}

// BaseURL returns the backend base URL (used to absolutize media paths).
func (c *Client) BaseURL() string { return c.base.String() }

// Session binds the client to one caller. creds and onUnauthorized may be
// nil (anonymous public pages, the login call itself).
func (c *Client) Session(creds CredentialStore, lang string, onUnauthorized func()) *Session {
	return &Session{
		client:         c,
		creds:          creds,
		lang:           fieldmodel.Normalize(lang),
		onUnauthorized: onUnauthorized,
	}
}

// Ping checks that the backend answers at all. Any HTTP response counts;
// only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String()+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: NetworkMessage, Err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
	return nil
}

// Session is a Client bound to one caller's credentials and language.
type Session struct {
	client         *Client
	creds          CredentialStore
	lang           string
	onUnauthorized func()
}

// Lang is the active language code.
func (s *Session) Lang() string { return s.lang }

// Client returns the underlying shared client.
func (s *Session) Client() *Client { return s.client }

// Do issues one request. body may be nil; query may be nil. When out is
// non-nil a successful JSON response is decoded into it.
func (s *Session) Do(ctx context.Context, method, path string, body *Body, query url.Values, out any) error {
	c := s.client
	resource := metrics.ResourceLabel(path)
	start := time.Now()

	req, err := s.newRequest(ctx, method, path, body, query)
	if err != nil {
		return err
	}
	reqID := req.Header.Get("X-Request-ID")

	resp, err := c.http.Do(req)
	metrics.APIDuration.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequests.WithLabelValues(method, resource, string(KindNetwork)).Inc()
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return &Error{Kind: KindNetwork, Message: NetworkMessage, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.APIRequests.WithLabelValues(method, resource, string(KindNetwork)).Inc()
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: NetworkMessage, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.APIRequests.WithLabelValues(method, resource, string(KindAuth)).Inc()
		s.forceLogout(reqID)
		return &Error{Kind: KindAuth, Status: resp.StatusCode, Message: serverMessage(raw)}

	case resp.StatusCode >= 400:
		metrics.APIRequests.WithLabelValues(method, resource, string(KindServer)).Inc()
		msg := serverMessage(raw)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.log.Info("backend returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", reqID),
			zap.String("message", msg))
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: msg}
	}

	metrics.APIRequests.WithLabelValues(method, resource, "ok").Inc()
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("backend response not decodable",
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "Unexpected response from server.", Err: err}
	}
	return nil
}

func (s *Session) newRequest(ctx context.Context, method, path string, body *Body, query url.Values) (*http.Request, error) {
	u := *s.client.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")

	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			if v != "" {
				q.Add(k, v)
			}
		}
	}
	// Reads carry the language as a query parameter; writes carry it in
	// their suffixed field names.
	if method == http.MethodGet && s.lang != fieldmodel.DefaultLanguage && q.Get("lang") == "" {
		q.Set("lang", s.lang)
	}
	u.RawQuery = q.Encode()

	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		var err error
		reader, contentType, err = body.encode()
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if s.creds != nil {
		if tok := s.creds.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

func (s *Session) forceLogout(reqID string) {
	metrics.ForcedLogouts.Inc()
	if s.creds != nil {
		if err := s.creds.Clear(); err != nil {
			s.client.log.Warn("clearing credentials after 401 failed",
				zap.String("request_id", reqID),
				zap.Error(err))
		}
	}
	if s.onUnauthorized != nil {
		s.onUnauthorized()
	}
}

// serverMessage pulls the human-readable message out of an error body.
func serverMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Errors  []struct {
			Msg     string `json:"msg"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return strings.TrimSpace(string(raw))
	}
	switch {
	case payload.Message != "":
		return payload.Message
	case payload.Error != "":
		return payload.Error
	case len(payload.Errors) > 0:
		if payload.Errors[0].Msg != "" {
			return payload.Errors[0].Msg
		}
		return payload.Errors[0].Message
	}
	return ""
}

// Get issues a GET.
func (s *Session) Get(ctx context.Context, path string, query url.Values, out any) error {
	return s.Do(ctx, http.MethodGet, path, nil, query, out)
}

// Post issues a POST.
func (s *Session) Post(ctx context.Context, path string, body *Body, out any) error {
	return s.Do(ctx, http.MethodPost, path, body, nil, out)
}

// Put issues a PUT.
func (s *Session) Put(ctx context.Context, path string, body *Body, out any) error {
	return s.Do(ctx, http.MethodPut, path, body, nil, out)
}

// Patch issues a PATCH.
func (s *Session) Patch(ctx context.Context, path string, body *Body, out any) error {
	return s.Do(ctx, http.MethodPatch, path, body, nil, out)
}

// Delete issues a DELETE.
func (s *Session) Delete(ctx context.Context, path string, out any) error {
	return s.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

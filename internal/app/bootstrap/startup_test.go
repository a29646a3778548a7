package bootstrap

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/limits"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		APIBaseURL:        "https://api.example.org/api",
		APITimeout:        15 * time.Second,
		SessionKey:        "a-session-key-that-is-long-enough-for-prod",
		SiteLanguage:      "mr",
		UploadMaxMB:       5,
		ContactRatePerMin: 5,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", "prod", func(*AppConfig) {}, ""},
		{"relative api url", "dev", func(c *AppConfig) { c.APIBaseURL = "/api" }, "api_base_url"},
		{"ftp api url", "dev", func(c *AppConfig) { c.APIBaseURL = "ftp://example.org" }, "api_base_url"},
		{"short session key in prod", "prod", func(c *AppConfig) { c.SessionKey = "short" }, "session_key"},
		{"short session key in dev", "dev", func(c *AppConfig) { c.SessionKey = "short" }, ""},
		{"bad csrf key", "dev", func(c *AppConfig) { c.CSRFKey = "too-short" }, "csrf_key"},
		{"zero contact rate", "dev", func(c *AppConfig) { c.ContactRatePerMin = 0 }, "contact_rate_per_min"},
		{"unknown language", "dev", func(c *AppConfig) { c.SiteLanguage = "fr" }, "site_language"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tc.env}, cfg, testLogger())
			switch {
			case tc.wantErr == "" && err != nil:
				t.Errorf("unexpected error: %v", err)
			case tc.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tc.wantErr)):
				t.Errorf("error = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestCSRFKey(t *testing.T) {
	cfg := validConfig()
	derived := csrfKey(cfg)
	if len(derived) != 32 {
		t.Fatalf("derived key length = %d, want 32", len(derived))
	}
	cfg.SessionKey += "-rotated"
	if string(csrfKey(cfg)) == string(derived) {
		t.Error("a new session key should derive a new csrf key")
	}
	cfg.CSRFKey = "0123456789abcdef0123456789abcdef"
	if string(csrfKey(cfg)) != cfg.CSRFKey {
		t.Error("an explicit csrf key should be used as is")
	}
}

func TestConnectDB(t *testing.T) {
	t.Cleanup(func() {
		timeouts.Reset()
		limits.SetUploadMB(0)
	})
	fb := testutil.NewFakeBackend(t)
	cfg := validConfig()
	cfg.APIBaseURL = fb.URL()
	cfg.APITimeout = 3 * time.Second
	cfg.UploadMaxMB = 7

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	defer Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, testLogger())

	if deps.API == nil || deps.ContactLimiter == nil || deps.LoginLimiter == nil {
		t.Fatalf("deps = %+v", deps)
	}
	if fb.CallCount() != 1 {
		t.Errorf("startup ping made %d calls, want 1", fb.CallCount())
	}
	if got := limits.MaxUploadSize(); got != 7<<20 {
		t.Errorf("MaxUploadSize = %d, want %d", got, 7<<20)
	}
	if got := timeouts.Read(); got != 3*time.Second {
		t.Errorf("read timeout = %v", got)
	}
}

func TestConnectDB_BackendDownIsNotFatal(t *testing.T) {
	t.Cleanup(func() {
		timeouts.Reset()
		limits.SetUploadMB(0)
	})
	fb := testutil.NewFakeBackend(t)
	cfg := validConfig()
	cfg.APIBaseURL = fb.URL()
	fb.Server.Close()

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB should tolerate an unreachable backend: %v", err)
	}
	_ = Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, testLogger())
}

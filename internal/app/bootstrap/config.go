// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the Gram Panchayat site.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: GRAMPANCHAYAT_API_BASE_URL, GRAMPANCHAYAT_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:5000/api", Desc: "Base URL of the panchayat REST backend"},
	{Name: "api_timeout", Default: "15s", Desc: "Timeout for one backend request (e.g., 15s, 1m)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "grampanchayat-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "How long an admin sign-in lasts"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (blank derives one from session_key)"},

	{Name: "site_language", Default: "mr", Desc: "Default language for new visitors: en, mr or hi"},
	{Name: "upload_max_mb", Default: 5, Desc: "Largest accepted admin upload in MB"},
	{Name: "contact_rate_per_min", Default: 5, Desc: "Contact form submissions allowed per IP per minute"},
	{Name: "stale_check", Default: true, Desc: "Refuse to overwrite records changed since the edit form was opened"},
	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "log", Desc: "Sign-in event logging: 'log' or 'off'"},
	{Name: "audit_log_admin", Default: "log", Desc: "Admin change logging: 'log' or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, GRAMPANCHAYAT_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GRAMPANCHAYAT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: appValues.String("api_base_url"),
		APITimeout: appValues.Duration("api_timeout", 15*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		SiteLanguage:      strings.TrimSpace(appValues.String("site_language")),
		UploadMaxMB:       appValues.Int("upload_max_mb"),
		ContactRatePerMin: appValues.Int("contact_rate_per_min"),
		StaleCheck:        appValues.Bool("stale_check"),
		MetricsEnabled:    appValues.Bool("metrics_enabled"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The backend URL is checked here so a typo fails at startup instead of on
// the first page view.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		logger.Error("invalid backend URL", zap.String("api_base_url", appCfg.APIBaseURL))
		return fmt.Errorf("invalid api_base_url %q: must be an http or https URL", appCfg.APIBaseURL)
	}
	if coreCfg.Env == "prod" && len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters in production")
	}
	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}
	if appCfg.ContactRatePerMin < 1 {
		return fmt.Errorf("contact_rate_per_min must be at least 1")
	}
	if !fieldmodel.IsSupported(appCfg.SiteLanguage) {
		return fmt.Errorf("site_language must be one of %s, got %q", strings.Join(fieldmodel.Codes(), ", "), appCfg.SiteLanguage)
	}
	return nil
}

// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and request limits; everything the site itself needs
// to reach the panchayat backend and render pages lives here.
type AppConfig struct {
	// REST backend
	APIBaseURL string        // e.g. https://api.example-panchayat.in/api
	APITimeout time.Duration // per-request timeout for backend calls

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: grampanchayat-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long an admin stays signed in

	// CSRF protection for every POST form
	CSRFKey string // 32 bytes; derived from SessionKey when blank

	// Site behaviour
	SiteLanguage      string // default language for new visitors: en, mr or hi
	UploadMaxMB       int    // largest accepted admin upload
	ContactRatePerMin int    // contact form submissions per IP per minute
	StaleCheck        bool   // refuse updates to records changed since the form was opened
	MetricsEnabled    bool   // expose /metrics

	// Audit logging
	AuditLogAuth  string // "log" or "off"
	AuditLogAdmin string // "log" or "off"
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	aboutfeature "github.com/dalemusser/grampanchayat/internal/app/features/about"
	admincrudfeature "github.com/dalemusser/grampanchayat/internal/app/features/admincrud"
	contactfeature "github.com/dalemusser/grampanchayat/internal/app/features/contact"
	contentfeature "github.com/dalemusser/grampanchayat/internal/app/features/content"
	dashboardfeature "github.com/dalemusser/grampanchayat/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	healthfeature "github.com/dalemusser/grampanchayat/internal/app/features/health"
	homefeature "github.com/dalemusser/grampanchayat/internal/app/features/home"
	loginfeature "github.com/dalemusser/grampanchayat/internal/app/features/login"
	logoutfeature "github.com/dalemusser/grampanchayat/internal/app/features/logout"
	messagesfeature "github.com/dalemusser/grampanchayat/internal/app/features/messages"
	villagefeature "github.com/dalemusser/grampanchayat/internal/app/features/village"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/metrics"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// publicTypes are the collections with a public list page.
var publicTypes = []string{
	models.TypeNews,
	models.TypeProjects,
	models.TypeSchemes,
	models.TypeGallery,
	models.TypeAwards,
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, the backend client, and any
// Startup hooks have completed. The site initializes the template engine,
// applies session, language and CSRF middleware, and mounts the public
// pages and the signed-in admin area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(logger, auditlog.Config{Auth: appCfg.AuditLogAuth, Admin: appCfg.AuditLogAdmin})
	api := deps.API

	r := chi.NewRouter()

	// Health check and metrics sit outside the session and CSRF layers.
	healthHandler := healthfeature.NewHandler(api, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if appCfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics.RegisterCollectors(reg)
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.LoadSessionUser)
		r.Use(i18n.Middleware(sessionMgr, appCfg.SiteLanguage, logger))
		if !secure {
			r.Use(plaintextCSRF)
		}
		r.Use(csrf.Protect(csrfKey(appCfg), csrf.Secure(secure), csrf.Path("/"), csrf.ErrorHandler(http.HandlerFunc(csrfFailed))))

		// Public pages
		homeHandler := homefeature.NewHandler(api, logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		aboutHandler := aboutfeature.NewHandler(api, logger)
		r.Mount("/about", aboutfeature.Routes(aboutHandler))

		for _, rt := range publicTypes {
			h := contentfeature.NewHandler(api, rt, errLog, logger)
			r.Mount("/"+rt, contentfeature.Routes(h))
		}

		contactHandler := contactfeature.NewHandler(api, deps.ContactLimiter, logger)
		r.Mount("/contact", contactfeature.Routes(contactHandler))
		r.Mount("/contact-us", contactfeature.MessageRoutes(contactHandler))

		// Error pages
		errorsHandler := errorsfeature.NewHandler()
		r.Get("/unauthorized", errorsHandler.Unauthorized)
		r.NotFound(errorsHandler.NotFound)

		r.Route("/admin", func(r chi.Router) {
			loginHandler := loginfeature.NewHandler(api, sessionMgr, errLog, auditLog, deps.LoginLimiter, logger)
			r.Mount("/login", loginfeature.Routes(loginHandler))

			logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
			r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

			// Everything else needs a signed-in admin; a 401 from the
			// backend ends the session and returns to the sign-in page.
			r.Group(func(r chi.Router) {
				r.Use(sessionMgr.RequireSignedIn)
				r.Use(sessionMgr.GuardUnauthorized)

				dashboardHandler := dashboardfeature.NewHandler(api, sessionMgr, logger)
				r.Mount("/", dashboardfeature.Routes(dashboardHandler))

				for _, rt := range models.ResourceTypes {
					h := admincrudfeature.NewHandler(api, sessionMgr, rt, appCfg.StaleCheck, errLog, auditLog, logger)
					r.Mount("/"+rt, admincrudfeature.Routes(h))
				}

				messagesHandler := messagesfeature.NewHandler(api, sessionMgr, errLog, auditLog, logger)
				r.Mount("/messages", messagesfeature.Routes(messagesHandler))

				villageHandler := villagefeature.NewHandler(api, sessionMgr, appCfg.StaleCheck, errLog, auditLog, logger)
				r.Mount("/village", villagefeature.Routes(villageHandler))
			})
		})
	})

	return r, nil
}

// csrfKey returns the configured key, or one derived from the session key.
func csrfKey(appCfg AppConfig) []byte {
	if appCfg.CSRFKey != "" {
		return []byte(appCfg.CSRFKey)
	}
	sum := sha256.Sum256([]byte("csrf:" + appCfg.SessionKey))
	return sum[:]
}

// plaintextCSRF tells gorilla/csrf the request arrived over plain HTTP so
// its Referer checks do not demand TLS during local development.
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	errorsfeature.RenderStatus(w, r, http.StatusForbidden, "page.error.title", "msg.sessionExpired", r.URL.Path)
}

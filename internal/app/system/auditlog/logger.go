// internal/app/system/auditlog/logger.go
package auditlog

import (
	"net/http"

	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Categories.
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Event types.
const (
	EventLoginSuccess  = "login_success"
	EventLoginFailed   = "login_failed"
	EventLogout        = "logout"
	EventForcedLogout  = "forced_logout"
	EventCreated       = "resource_created"
	EventUpdated       = "resource_updated"
	EventDeleted       = "resource_deleted"
	EventMoved         = "resource_moved"
	EventVillageReset  = "village_reset"
	EventSliderChanged = "slider_changed"
	EventMessageStatus = "message_status_changed"
	EventMessageReply  = "message_replied"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-in events: "log" or "off".
	Auth string
	// Admin controls content changes made from the admin area: "log" or "off".
	Admin string
}

// Event is one audited action.
type Event struct {
	Category      string
	EventType     string
	Success       bool
	IP            string
	Actor         string // admin username, when known
	ResourceType  string
	ResourceID    string
	FailureReason string
	Details       map[string]string
}

// Logger writes audit events as structured log entries. The backend keeps
// its own records; these entries trace what this frontend asked it to do.
type Logger struct {
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{zapLog: zapLog.Named("audit"), config: config}
}

func (l *Logger) enabled(category string) bool {
	if l == nil {
		return false
	}
	switch category {
	case CategoryAuth:
		return l.config.Auth != "off"
	case CategoryAdmin:
		return l.config.Admin != "off"
	}
	return true
}

// Log records event when its category is enabled.
func (l *Logger) Log(event Event) {
	if !l.enabled(event.Category) {
		return
	}
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.ResourceType != "" {
		fields = append(fields, zap.String("resource_type", event.ResourceType))
	}
	if event.ResourceID != "" {
		fields = append(fields, zap.String("resource_id", event.ResourceID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String(k, v))
	}
	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func actor(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok && u != nil {
		if u.Username != "" {
			return u.Username
		}
		return u.Name
	}
	return ""
}

// LoginSuccess logs a successful admin sign-in.
func (l *Logger) LoginSuccess(r *http.Request, username string) {
	l.Log(Event{Category: CategoryAuth, EventType: EventLoginSuccess, Success: true, IP: ratelimit.ClientIP(r), Actor: username})
}

// LoginFailed logs a rejected sign-in with the backend's reason.
func (l *Logger) LoginFailed(r *http.Request, username, reason string) {
	l.Log(Event{Category: CategoryAuth, EventType: EventLoginFailed, IP: ratelimit.ClientIP(r), Actor: username, FailureReason: reason})
}

// Logout logs an explicit sign-out.
func (l *Logger) Logout(r *http.Request) {
	l.Log(Event{Category: CategoryAuth, EventType: EventLogout, Success: true, IP: ratelimit.ClientIP(r), Actor: actor(r)})
}

// ResourceChanged logs a mutation sent to the backend from the admin area.
func (l *Logger) ResourceChanged(r *http.Request, eventType, resourceType, id string, err error) {
	ev := Event{
		Category:     CategoryAdmin,
		EventType:    eventType,
		Success:      err == nil,
		IP:           ratelimit.ClientIP(r),
		Actor:        actor(r),
		ResourceType: resourceType,
		ResourceID:   id,
	}
	if err != nil {
		ev.FailureReason = err.Error()
	}
	l.Log(ev)
}

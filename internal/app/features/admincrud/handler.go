// Package admincrud is the admin area for the collection types: list with
// search and filters, create, edit, delete and, for ordered types, move.
// One Handler serves one resource type; the field model decides the form.
package admincrud

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"go.uber.org/zap"
)

// Handler serves /admin/<type>.
type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	Schema     fieldmodel.Schema
	Base       string // "/admin/news"
	StaleCheck bool   // refuse updates to records changed since the form was opened
}

func NewHandler(
	api *apiclient.Client,
	sm *auth.SessionManager,
	resourceType string,
	staleCheck bool,
	errLog *uierrors.ErrorLogger,
	auditLog *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Log:        logger.With(zap.String("resource_type", resourceType)),
		Schema:     fieldmodel.MustLookup(resourceType),
		Base:       "/admin/" + resourceType,
		StaleCheck: staleCheck,
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *apiclient.Session {
	return h.SessionMgr.APISession(w, r, h.API)
}

// redirect sends the browser back to the list with a one-shot notice.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, flashKey string) {
	http.Redirect(w, r, h.Base+"?flash="+flashKey, http.StatusSeeOther)
}

// loadedAtLayout carries a draft's LoadedAt through the edit form.
const loadedAtLayout = time.RFC3339Nano

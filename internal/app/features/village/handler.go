// Package village edits the village profile: the single record behind the
// about page, a confirmed reset, and the homepage slider images.
package village

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	villagestore "github.com/dalemusser/grampanchayat/internal/app/store/village"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"go.uber.org/zap"
)

const (
	base = "/admin/village"

	loadedAtLayout = time.RFC3339Nano
)

type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
	Schema     fieldmodel.Schema
	StaleCheck bool
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, staleCheck bool, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Log:        logger,
		Schema:     fieldmodel.MustLookup(models.TypeVillage),
		StaleCheck: staleCheck,
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *apiclient.Session {
	return h.SessionMgr.APISession(w, r, h.API)
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) *villagestore.Store {
	return villagestore.New(h.session(w, r))
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, flashKey string) {
	http.Redirect(w, r, base+"?flash="+flashKey, http.StatusSeeOther)
}

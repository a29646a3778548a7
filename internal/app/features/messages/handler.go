// Package messages is the admin inbox for visitor messages: a paged list
// with status filter and search, the message view, read/unread and status
// changes, replies and deletion.
package messages

import (
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	messagestore "github.com/dalemusser/grampanchayat/internal/app/store/messages"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/display"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

const (
	base = "/admin/messages"

	// pageLimit is how many messages the backend returns per page.
	pageLimit = 10

	excerptRunes = 80
)

type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Log:        logger,
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *apiclient.Session {
	return h.SessionMgr.APISession(w, r, h.API)
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) *messagestore.Store {
	return messagestore.New(h.session(w, r))
}

// message is one contact message resolved for display.
type message struct {
	ID          string
	Name        string
	Email       string
	Mobile      string
	Body        string
	Excerpt     string
	Status      string
	StatusLabel string
	Reply       string
	Read        bool
	Received    string
}

func newMessage(res models.Resource, f display.Formatter) message {
	m := message{
		ID:       res.ID,
		Name:     res.Str("name"),
		Email:    res.Str("email"),
		Mobile:   res.Str("mobile"),
		Body:     res.Str("message"),
		Status:   res.Str("status"),
		Reply:    res.Str("adminReply"),
		Read:     res.Bool("isRead"),
		Received: f.DateTime(res.CreatedAt),
	}
	if m.Status == "" {
		m.Status = models.MessageStatuses[0]
	}
	m.StatusLabel = i18n.Label(f.Lang, "option", m.Status)
	m.Excerpt = excerpt(m.Body, excerptRunes)
	return m
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

// back returns where a POST should land: the page the form was posted
// from when it is local, the inbox otherwise. A non-empty flashKey is
// added as the one-shot notice.
func back(r *http.Request, flashKey string) string {
	dest := urlutil.SafeReturn(strings.TrimSpace(r.PostFormValue("return")), "", base)
	if flashKey == "" {
		return dest
	}
	u, err := url.Parse(dest)
	if err != nil {
		return base + "?flash=" + flashKey
	}
	q := u.Query()
	q.Set("flash", flashKey)
	u.RawQuery = q.Encode()
	return u.String()
}

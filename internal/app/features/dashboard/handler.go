// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/grampanchayat/internal/app/store/metrics"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// dashboardTimeout covers the five parallel count requests.
const dashboardTimeout = 10 * time.Second

type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sm,
		Log:        logger,
	}
}

type tile struct {
	Label string
	Count int
	Shown string // Count in the active language's digits
	Href  string
	Note  string // secondary figure, e.g. unread messages
}

type dashboardData struct {
	viewdata.BaseVM
	Tiles      []tile
	RecentNews []viewdata.Card
}

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	data := h.buildDashboard(w, r)
	templates.Render(w, r, "admin_dashboard", data)
}

func (h *Handler) buildDashboard(w http.ResponseWriter, r *http.Request) dashboardData {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, h.SessionMgr.APISession(w, r, h.API))

	data := dashboardData{BaseVM: viewdata.NewBaseVM(r, "page.admin.dashboard", "/admin")}
	lang := data.Lang
	unread := ""
	if counts.Unread > 0 {
		unread = data.Fmt.Number(float64(counts.Unread)) + " " + i18n.T(lang, "page.admin.stats.unread")
	}
	data.Tiles = []tile{
		{Label: i18n.T(lang, "type.news"), Count: counts.News, Href: "/admin/news"},
		{Label: i18n.T(lang, "type.projects"), Count: counts.Projects, Href: "/admin/projects"},
		{Label: i18n.T(lang, "type.gallery"), Count: counts.Gallery, Href: "/admin/gallery"},
		{Label: i18n.T(lang, "type.contacts"), Count: counts.Contacts, Href: "/admin/contacts"},
		{Label: i18n.T(lang, "nav.messages"), Count: counts.Messages, Href: "/admin/messages", Note: unread},
	}
	for i := range data.Tiles {
		data.Tiles[i].Shown = data.Fmt.Number(float64(data.Tiles[i].Count))
	}

	if schema, ok := fieldmodel.Lookup(models.TypeNews); ok {
		data.RecentNews = viewdata.NewCards(schema, counts.RecentNews, data.Fmt, "/admin/news")
	}

	if len(counts.Failed) > 0 {
		h.Log.Warn("dashboard counts incomplete", zap.Strings("failed", counts.Failed))
		data.WithError("msg.partialData")
	}
	return data
}

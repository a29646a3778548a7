package messages

import (
	"context"
	"net/http"
	"slices"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	messagestore "github.com/dalemusser/grampanchayat/internal/app/store/messages"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/app/system/paging"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type stat struct {
	Label string
	Value int
	Shown string
}

type listData struct {
	viewdata.BaseVM
	Stats    []stat
	Messages []message
	Statuses []viewdata.Option
	Status   string
	Search   string
	Return   string
	Nav      paging.Nav
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/messages                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "admin_messages", h.buildList(w, r))
}

func (h *Handler) buildList(w http.ResponseWriter, r *http.Request) listData {
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "nav.messages", "/admin"),
		Search: query.Search(r, listing.SearchParam),
		Return: httpnav.CurrentPath(r),
	}
	data.Status = query.Get(r, "status")
	if !slices.Contains(models.MessageStatuses, data.Status) {
		data.Status = ""
	}
	for _, s := range models.MessageStatuses {
		data.Statuses = append(data.Statuses, viewdata.Option{
			Value:    s,
			Label:    i18n.Label(data.Lang, "option", s),
			Selected: s == data.Status,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Page())
	defer cancel()

	sess := h.session(w, r)
	ctl := listing.New(fieldmodel.MustLookup(models.TypeContactMessages), sess)
	page := paging.ParsePage(r)
	var (
		col              listing.Collection
		stats            messagestore.Stats
		listErr, statErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		col, listErr = ctl.Load(gctx, listing.Query{
			Page:   page,
			Limit:  pageLimit,
			Status: data.Status,
			Search: data.Search,
		})
		return nil
	})
	g.Go(func() error {
		stats, statErr = messagestore.New(sess).Stats(gctx)
		return nil
	})
	_ = g.Wait()

	if statErr != nil {
		h.Log.Warn("message stats failed", zap.Error(statErr))
	}
	counters := []stat{
		{Label: i18n.T(data.Lang, "page.admin.stats.total"), Value: stats.Total},
		{Label: i18n.T(data.Lang, "page.admin.stats.unread"), Value: stats.Unread},
		{Label: i18n.Label(data.Lang, "option", "pending"), Value: stats.Pending},
		{Label: i18n.Label(data.Lang, "option", "replied"), Value: stats.Replied},
	}
	for i := range counters {
		counters[i].Shown = data.Fmt.Number(float64(counters[i].Value))
	}
	data.Stats = counters

	if listErr != nil {
		h.Log.Warn("message list failed", zap.Error(listErr))
		data.WithError(uierrors.BannerMessage(data.Lang, listErr))
		return data
	}
	for _, res := range col.Items {
		data.Messages = append(data.Messages, newMessage(res, data.Fmt))
	}
	if col.Page > 0 {
		page = col.Page
	}
	data.Nav = paging.NewNav(r, page, col.TotalPages, len(col.Items), col.Total)
	return data
}

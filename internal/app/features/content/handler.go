// Package content serves the public list and detail pages of the
// collection types (news, projects, schemes, gallery, awards).
package content

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves one resource type's public pages.
type Handler struct {
	API    *apiclient.Client
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	Schema fieldmodel.Schema
	Base   string // mount path, e.g. "/news"
	Detail bool   // whether records have their own page
}

// NewHandler builds the handler for resourceType. Gallery items are shown
// in the grid only; every other type gets a detail page.
func NewHandler(api *apiclient.Client, resourceType string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:    api,
		ErrLog: errLog,
		Log:    logger,
		Schema: fieldmodel.MustLookup(resourceType),
		Base:   "/" + resourceType,
		Detail: resourceType != models.TypeGallery,
	}
}

type listData struct {
	viewdata.BaseVM
	Type    string
	Items   []viewdata.Card
	Filters []viewdata.Filter
	Search  string
	Total   int // before filtering
}

type fact struct {
	Label string
	Value string
}

type detailData struct {
	viewdata.BaseVM
	Type  string
	Item  viewdata.Card
	Body  template.HTML // the type's main long text
	Facts []fact
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /<type>                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "content_list", h.buildList(r))
}

func (h *Handler) buildList(r *http.Request) listData {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "nav."+h.Schema.Type, "/"),
		Type:   h.Schema.Type,
		Search: query.Search(r, listing.SearchParam),
	}

	ctl := listing.New(h.Schema, auth.PublicSession(r, h.API))
	col, err := ctl.Load(ctx, listing.Query{})
	if err != nil {
		h.Log.Warn("content: list failed", zap.String("type", h.Schema.Type), zap.Error(err))
		data.WithError(uierrors.BannerMessage(data.Lang, err))
	}
	data.Total = col.Len()
	data.Filters = viewdata.NewFilters(h.Schema, col.Items, r.URL.Query(), data.Lang)

	visible := listing.Filter(col, listing.FromQuery(h.Schema, r.URL.Query()))
	href := ""
	if h.Detail {
		href = h.Base
	}
	data.Items = viewdata.NewCards(h.Schema, visible.Items, data.Fmt, href)
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /<type>/{id}                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	id := chi.URLParam(r, "id")
	res, err := auth.PublicSession(r, h.API).Fetch(ctx, h.Schema.ItemPath(id))
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "content: load "+h.Schema.Type, err, h.Base)
		return
	}
	templates.Render(w, r, "content_detail", h.buildDetail(r, res))
}

// mainText is the long field shown as the page body.
var mainText = []string{"content", "description"}

func (h *Handler) buildDetail(r *http.Request, res models.Resource) detailData {
	data := detailData{
		BaseVM: viewdata.NewBaseVM(r, "nav."+h.Schema.Type, h.Base),
		Type:   h.Schema.Type,
	}
	data.Item = viewdata.NewCard(h.Schema, res, data.Fmt, "")
	data.Title = data.Item.Title

	body := ""
	for _, name := range mainText {
		if _, ok := h.Schema.Field(name); ok {
			body = name
			data.Body = data.Item.Rich[name]
			break
		}
	}
	for _, f := range h.Schema.Fields {
		v := data.Item.Attrs[f.Name]
		if v == "" || f.Name == h.Schema.TitleField || f.Name == body || f.Kind == fieldmodel.MediaFile {
			continue
		}
		if f.Long {
			continue
		}
		data.Facts = append(data.Facts, fact{Label: i18n.Label(data.Lang, "field", f.Name), Value: v})
	}
	return data
}

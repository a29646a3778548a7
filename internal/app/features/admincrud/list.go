package admincrud

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/auditlog"
	"github.com/dalemusser/grampanchayat/internal/app/system/display"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/app/system/paging"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type row struct {
	ID    string
	Cells []string
	Thumb string
	First bool
	Last  bool
}

type listData struct {
	viewdata.BaseVM
	Base     string
	Columns  []string
	Rows     []row
	Filters  []viewdata.Filter
	Search   string
	Ordered  bool
	Filtered bool // search or filter active
	Total    int  // before filtering
	Nav      paging.Nav
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/<type>                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "admin_list", h.buildList(w, r))
}

func (h *Handler) buildList(w http.ResponseWriter, r *http.Request) listData {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	data := listData{
		BaseVM:  viewdata.NewBaseVM(r, "type."+h.Schema.Type, "/admin"),
		Base:    h.Base,
		Search:  query.Search(r, listing.SearchParam),
		Ordered: h.Schema.Ordered,
	}
	for _, c := range h.Schema.Columns {
		data.Columns = append(data.Columns, i18n.Label(data.Lang, "field", c))
	}

	ctl := listing.New(h.Schema, h.session(w, r))
	col, err := ctl.Load(ctx, listing.Query{})
	if err != nil {
		h.Log.Warn("admin list failed", zap.Error(err))
		data.WithError(uierrors.BannerMessage(data.Lang, err))
	}
	data.Total = col.Len()
	data.Filters = viewdata.NewFilters(h.Schema, col.Items, r.URL.Query(), data.Lang)

	q := r.URL.Query()
	visible := listing.Filter(col, listing.FromQuery(h.Schema, q))
	data.Filtered = visible.Len() != col.Len() || data.Search != ""
	for _, name := range h.Schema.FilterFields {
		if q.Get(name) != "" {
			data.Filtered = true
		}
	}

	items, page := paging.Slice(visible.Items, paging.ParsePage(r), paging.PageSize)
	for i, res := range items {
		data.Rows = append(data.Rows, h.newRow(res, data.Fmt, data.Lang))
		// move buttons are offered only on the unfiltered full order
		if !data.Filtered {
			data.Rows[i].First = page == 1 && i == 0
			data.Rows[i].Last = (page-1)*paging.PageSize+i == visible.Len()-1
		}
	}
	data.Nav = paging.NewNav(r, page, paging.TotalPages(visible.Len(), paging.PageSize), len(items), visible.Len())
	return data
}

func (h *Handler) newRow(res models.Resource, f display.Formatter, lang string) row {
	rw := row{ID: res.ID}
	for _, name := range h.Schema.Columns {
		field, _ := h.Schema.Field(name)
		var v string
		switch {
		case field.Kind == fieldmodel.LocalizedText:
			v = display.Resolve(res, name, lang)
		case name == "budget":
			if n, ok := res.Num(name); ok {
				v = f.Currency(n)
			}
		default:
			v = f.Attr(res, field)
		}
		rw.Cells = append(rw.Cells, v)
	}
	for _, field := range h.Schema.Fields {
		if field.Kind == fieldmodel.MediaFile {
			rw.Thumb = res.Str(fieldmodel.Descriptor{Field: field, Key: field.Name}.URLKey())
			break
		}
	}
	return rw
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/<type>/{id}/move                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", h.Base)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id := chi.URLParam(r, "id")
	ctl := listing.New(h.Schema, h.session(w, r))
	_, err := ctl.Reorder(ctx, id, r.PostFormValue("direction"))
	if errors.Is(err, listing.ErrDirection) || errors.Is(err, listing.ErrNotOrdered) {
		h.ErrLog.LogBadRequest(w, r, "move rejected", err, "Invalid move.", h.Base)
		return
	}
	h.AuditLog.ResourceChanged(r, auditlog.EventMoved, h.Schema.Type, id, err)
	if err != nil {
		h.ErrLog.HandleAPIError(w, r, "admin move "+h.Schema.Type, err, h.Base)
		return
	}
	h.redirect(w, r, "msg.moved")
}

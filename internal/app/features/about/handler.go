// internal/app/features/about/handler.go
package about

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	villagestore "github.com/dalemusser/grampanchayat/internal/app/store/village"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// representatives are shown in their own block rather than the fact list.
var representatives = map[string]bool{
	"sarpanch":     true,
	"assemblyMLA":  true,
	"parliamentMP": true,
}

type fact struct {
	Label string
	Value string
}

type section struct {
	Label string
	Body  template.HTML
}

type pageData struct {
	viewdata.BaseVM
	Village         viewdata.Card
	MapLink         string
	Stats           []fact // numbers
	Facts           []fact // short localized text
	Representatives []fact
	Sections        []section // long localized text
}

type Handler struct {
	API *apiclient.Client
	Log *zap.Logger
}

func NewHandler(api *apiclient.Client, logger *zap.Logger) *Handler {
	return &Handler{API: api, Log: logger}
}

func (h *Handler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "about", h.buildAbout(r))
}

func (h *Handler) buildAbout(r *http.Request) pageData {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	data := pageData{BaseVM: viewdata.NewBaseVM(r, "nav.about", "/")}
	village, err := villagestore.New(auth.PublicSession(r, h.API)).Public(ctx)
	if err != nil {
		h.Log.Warn("about: village profile failed to load", zap.Error(err))
		data.WithError(uierrors.BannerMessage(data.Lang, err))
	}

	s := fieldmodel.MustLookup(models.TypeVillage)
	data.Village = viewdata.NewCard(s, village, data.Fmt, "")
	data.MapLink = data.Village.Attrs["mapLink"]
	if data.Village.Title != "" {
		data.SiteName = data.Village.Title
	}

	for _, f := range s.Fields {
		v := data.Village.Attrs[f.Name]
		if v == "" || f.Name == s.TitleField {
			continue
		}
		label := i18n.Label(data.Lang, "field", f.Name)
		switch {
		case f.Kind == fieldmodel.Number:
			data.Stats = append(data.Stats, fact{Label: label, Value: v})
		case f.Kind == fieldmodel.LocalizedText && f.Long:
			data.Sections = append(data.Sections, section{Label: label, Body: data.Village.Rich[f.Name]})
		case representatives[f.Name]:
			data.Representatives = append(data.Representatives, fact{Label: label, Value: v})
		case f.Kind == fieldmodel.LocalizedText, f.Kind == fieldmodel.PlainText:
			data.Facts = append(data.Facts, fact{Label: label, Value: v})
		}
	}
	return data
}

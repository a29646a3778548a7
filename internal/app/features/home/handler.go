package home

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	villagestore "github.com/dalemusser/grampanchayat/internal/app/store/village"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/viewdata"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// How many records each home page section shows.
const (
	newsOnHome    = 3
	galleryOnHome = 6
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	API *apiclient.Client
	Log *zap.Logger
}

func NewHandler(api *apiclient.Client, logger *zap.Logger) *Handler {
	return &Handler{
		API: api,
		Log: logger,
	}
}

type slide struct {
	Image   string
	Caption string
}

type homeData struct {
	viewdata.BaseVM
	Village  viewdata.Card
	Slides   []slide
	News     []viewdata.Card
	Gallery  []viewdata.Card
	Contacts []viewdata.Card
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "home", h.buildHome(r))
}

// buildHome loads every section concurrently. A failing section is left
// empty and reported in the banner; the page itself always renders.
func (h *Handler) buildHome(r *http.Request) homeData {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Page())
	defer cancel()

	data := homeData{BaseVM: viewdata.NewBaseVM(r, "nav.home", "/")}
	sess := auth.PublicSession(r, h.API)

	var (
		village                 models.Resource
		news, gallery, contacts apiclient.ListResult
		errs                    = make([]error, 4)
	)
	limit := func(n int) url.Values {
		return url.Values{"limit": {strconv.Itoa(n)}}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		village, errs[0] = villagestore.New(sess).Public(gctx)
		return nil
	})
	g.Go(func() error {
		news, errs[1] = sess.List(gctx, "/"+models.TypeNews, limit(newsOnHome))
		return nil
	})
	g.Go(func() error {
		gallery, errs[2] = sess.List(gctx, "/"+models.TypeGallery, limit(galleryOnHome))
		return nil
	})
	g.Go(func() error {
		contacts, errs[3] = sess.List(gctx, "/"+models.TypeContacts, nil)
		return nil
	})
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			h.Log.Warn("home: section failed to load", zap.Error(err))
			data.WithError(uierrors.BannerMessage(data.Lang, err))
			break
		}
	}

	f := data.Fmt
	data.Village = viewdata.NewCard(fieldmodel.MustLookup(models.TypeVillage), village, f, "")
	for _, img := range models.SliderImages(village, fieldmodel.Codes()) {
		caption := img.Captions[data.Lang]
		if caption == "" {
			caption = img.Captions[fieldmodel.DefaultLanguage]
		}
		data.Slides = append(data.Slides, slide{Image: img.ImageURL, Caption: caption})
	}
	data.News = viewdata.NewCards(fieldmodel.MustLookup(models.TypeNews), capped(news.Data, newsOnHome), f, "/news")
	data.Gallery = viewdata.NewCards(fieldmodel.MustLookup(models.TypeGallery), capped(gallery.Data, galleryOnHome), f, "")
	data.Contacts = viewdata.NewCards(fieldmodel.MustLookup(models.TypeContacts), contacts.Data, f, "")
	if name := data.Village.Title; name != "" {
		data.SiteName = name
	}
	return data
}

// capped guards against a backend that ignores limit.
func capped(list []models.Resource, n int) []models.Resource {
	if len(list) > n {
		return list[:n]
	}
	return list
}

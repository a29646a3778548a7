package metricsstore

import (
	"context"
	"net/url"
	"strconv"

	messagestore "github.com/dalemusser/grampanchayat/internal/app/store/messages"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// RecentLimit is how many records each dashboard list request asks for.
const RecentLimit = 5

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	News     int
	Projects int
	Gallery  int
	Contacts int
	Messages int
	Unread   int

	RecentNews []models.Resource
	// Failed lists the sources that could not be read.
	Failed []string
}

// FetchDashboardCounts returns the high-level counts used by the dashboard.
// Intentionally tolerant: on error it returns 0 for that counter and names
// the source in Failed.
func FetchDashboardCounts(ctx context.Context, sess *apiclient.Session) Counts {
	var (
		out     Counts
		results = make([]apiclient.ListResult, 4)
		errs    = make([]error, 5)
		paths   = []string{models.TypeNews, models.TypeProjects, models.TypeGallery, models.TypeContacts}
		stats   messagestore.Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			q := url.Values{}
			if p != models.TypeContacts {
				q.Set("limit", strconv.Itoa(RecentLimit))
			}
			results[i], errs[i] = sess.List(gctx, "/"+p, q)
			return nil
		})
	}
	g.Go(func() error {
		stats, errs[4] = messagestore.New(sess).Stats(gctx)
		return nil
	})
	_ = g.Wait()

	totals := []*int{&out.News, &out.Projects, &out.Gallery, &out.Contacts}
	for i, p := range paths {
		if errs[i] != nil {
			out.Failed = append(out.Failed, p)
			continue
		}
		*totals[i] = results[i].Total
	}
	if errs[4] != nil {
		out.Failed = append(out.Failed, models.TypeContactMessages)
	} else {
		out.Messages = stats.Total
		out.Unread = stats.Unread
	}
	if errs[0] == nil {
		out.RecentNews = results[0].Data
	}
	return out
}

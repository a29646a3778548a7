package draft

import (
	"context"
	"fmt"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

// ToPayload builds the request body: every scalar slot under its wire name
// in field-model order, and each newly chosen media file as an attachment.
// Media slots without a new file are left out, which the backend treats as
// "unchanged" on update. So are number slots the record never had.
func ToPayload(d Draft) *apiclient.Body {
	body := apiclient.NewBody()
	for _, desc := range d.schema.Expand() {
		if desc.Kind == fieldmodel.MediaFile {
			if m := d.Media(desc.Key); m.Selected() {
				body.Attach(*m.File)
			}
			continue
		}
		if d.unset[desc.Key] {
			continue
		}
		body.Set(desc.Key, d.values[desc.Key])
	}
	return body
}

// Options tunes Submit.
type Options struct {
	// CheckStale re-reads the record before an update and fails with
	// ErrStale if its updatedAt moved past the draft's LoadedAt.
	CheckStale bool
}

// Submit validates d and sends it: PUT to the record's path for a draft
// from InitEdit, POST to the collection otherwise. Validation failures are
// returned as ValidationErrors without any request being made.
func Submit(ctx context.Context, sess *apiclient.Session, d Draft, opts Options) (models.Resource, error) {
	if errs := Validate(d); errs != nil {
		return models.Resource{}, errs
	}
	body := ToPayload(d)
	s := d.schema

	if !d.editing {
		res, err := sess.Create(ctx, s.Path(), body)
		if err != nil {
			return models.Resource{}, err
		}
		return orEcho(res, "", body), nil
	}

	path := s.ItemPath(d.id)
	if opts.CheckStale && !d.loadedAt.IsZero() {
		current, err := sess.Fetch(ctx, path)
		if err != nil {
			return models.Resource{}, fmt.Errorf("check %s for changes: %w", path, err)
		}
		if current.UpdatedAt.After(d.loadedAt) {
			return models.Resource{}, ErrStale
		}
	}
	res, err := sess.Update(ctx, path, body)
	if err != nil {
		return models.Resource{}, err
	}
	return orEcho(res, d.id, body), nil
}

// orEcho falls back to the submitted values when the backend answers
// without a data object.
func orEcho(res models.Resource, id string, body *apiclient.Body) models.Resource {
	if res.ID != "" || len(res.Fields) > 0 {
		return res
	}
	return models.NewResource(id, body.Map())
}

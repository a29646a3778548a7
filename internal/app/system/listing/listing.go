// Package listing loads a resource collection from the backend, filters it
// client-side, and runs the list-level mutations (delete, move up/down).
//
// A Controller belongs to one page render or one CLI command. It never
// patches its collection locally: every successful mutation reloads the
// whole collection from the backend, and a failed call leaves the last
// good collection in place.
package listing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

var (
	// ErrNoID is returned for an empty id by the delete and reorder methods.
	ErrNoID = errors.New("listing: record id is empty")
	// ErrNotOrdered is returned by Reorder for types without server ordering.
	ErrNotOrdered = errors.New("listing: resource type is not ordered")
	// ErrDirection is returned by Reorder for anything but up or down.
	ErrDirection = errors.New("listing: direction must be up or down")
)

// Query holds the parameters passed through to the backend list call.
type Query struct {
	Page   int
	Limit  int
	Status string // contact messages only
	Search string // server-side search where the backend supports it
	Extra  url.Values
}

// Values encodes the query. Zero fields are left out.
func (q Query) Values() url.Values {
	v := url.Values{}
	for k, vs := range q.Extra {
		v[k] = append([]string(nil), vs...)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// Collection is the client-side copy of one resource type's list.
type Collection struct {
	Type       string
	Items      []models.Resource
	Total      int
	TotalPages int
	Page       int
	LoadedAt   time.Time
}

// Len is the number of loaded items.
func (c Collection) Len() int { return len(c.Items) }

// Find returns the item with id.
func (c Collection) Find(id string) (models.Resource, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return models.Resource{}, false
}

// Confirmer asks for explicit confirmation before a destructive call.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// Confirmed is a Confirmer with a fixed answer. The web admin passes the
// result of its confirmation form.
func Confirmed(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return yes, nil })
}

// Controller loads and mutates one resource type's collection.
type Controller struct {
	Schema  fieldmodel.Schema
	Session *apiclient.Session

	current Collection
	query   Query
}

// New returns a controller with an empty collection.
func New(s fieldmodel.Schema, sess *apiclient.Session) *Controller {
	return &Controller{Schema: s, Session: sess, current: Collection{Type: s.Type}}
}

// Collection returns the last successfully loaded collection.
func (c *Controller) Collection() Collection { return c.current }

// Load fetches the collection and replaces the held copy. On failure the
// previous collection is returned alongside the error.
func (c *Controller) Load(ctx context.Context, q Query) (Collection, error) {
	res, err := c.Session.List(ctx, c.Schema.Path(), q.Values())
	if err != nil {
		return c.current, err
	}
	c.query = q
	c.current = Collection{
		Type:       c.Schema.Type,
		Items:      res.Data,
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Page:       res.Page,
		LoadedAt:   time.Now(),
	}
	return c.current, nil
}

// Reload repeats the last Load.
func (c *Controller) Reload(ctx context.Context) (Collection, error) {
	return c.Load(ctx, c.query)
}

// Remove deletes one record after confirm agrees. A declined confirmation
// returns false with no request made. After a successful delete the
// collection is reloaded.
func (c *Controller) Remove(ctx context.Context, id string, confirm Confirmer) (Collection, bool, error) {
	removed, err := c.Delete(ctx, id, confirm)
	if err != nil || !removed {
		return c.current, removed, err
	}
	col, err := c.Reload(ctx)
	if err != nil {
		return col, true, fmt.Errorf("reload after delete: %w", err)
	}
	return col, true, nil
}

// Delete is Remove without the reload, for callers that redirect to the
// list afterwards.
func (c *Controller) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if id == "" {
		return false, ErrNoID
	}
	ok, err := confirm.Confirm(ctx, "delete "+c.Schema.Type+" "+id)
	if err != nil || !ok {
		return false, err
	}
	if err := c.Session.Remove(ctx, c.Schema.ItemPath(id)); err != nil {
		return false, err
	}
	return true, nil
}

// Reorder asks the backend to move a record one place up or down and
// reloads. The backend owns the ordering; nothing is computed here.
func (c *Controller) Reorder(ctx context.Context, id, direction string) (Collection, error) {
	switch {
	case !c.Schema.Ordered:
		return c.current, ErrNotOrdered
	case id == "":
		return c.current, ErrNoID
	case direction != models.MoveUp && direction != models.MoveDown:
		return c.current, ErrDirection
	}
	body := apiclient.NewBody().Set("direction", direction)
	var out apiclient.StatusResult
	if err := c.Session.Put(ctx, c.Schema.ItemPath(id)+"/move", body, &out); err != nil {
		return c.current, err
	}
	col, err := c.Reload(ctx)
	if err != nil {
		return col, fmt.Errorf("reload after move: %w", err)
	}
	return col, nil
}

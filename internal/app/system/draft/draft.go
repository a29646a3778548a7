// Package draft holds the staging copy of a resource while an admin fills in
// a create or edit form.
//
// A Draft tracks one value per concrete field slot from the field model, so
// every language form of every localized field lives in the same draft. The
// admin page's language tabs only choose which inputs are visible; all of
// them are posted and kept on every submit.
//
// Drafts are values. SetField and FromForm return a new Draft and leave the
// receiver untouched.
package draft

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/display"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

var (
	// ErrUnknownField is returned by SetField for a key the schema does not
	// expand to.
	ErrUnknownField = errors.New("draft: unknown field")

	// ErrKindMismatch is returned by SetField when the value's Go type does
	// not fit the field kind.
	ErrKindMismatch = errors.New("draft: value does not match field kind")

	// ErrStale is returned by Submit with CheckStale when the stored record
	// was updated after the draft was initialized.
	ErrStale = errors.New("draft: resource was modified since it was loaded")
)

// dateLayout is the value format of <input type="date">.
const dateLayout = "2006-01-02"

// Media is the value of a MediaFile slot: the URL already stored on the
// server (edit mode) and the newly chosen upload, if any.
type Media struct {
	URL  string
	File *apiclient.File
}

// Selected reports whether a new file was chosen.
func (m Media) Selected() bool { return m.File != nil && len(m.File.Data) > 0 }

// Draft is the staging state of one create or edit form.
type Draft struct {
	schema   fieldmodel.Schema
	id       string
	editing  bool
	loadedAt time.Time
	values   map[string]any
	raw      map[string]string // number input that did not parse, kept for redisplay
	unset    map[string]bool   // number slots the loaded record had no value for
}

// InitCreate returns a draft with every slot at its kind's zero value: ""
// for text, the first option for enums, 0 for numbers, no media and false
// for flags. Year fields marked CurrentYear start at the current year.
func InitCreate(s fieldmodel.Schema) Draft {
	d := Draft{schema: s, values: make(map[string]any)}
	for _, desc := range s.Expand() {
		d.values[desc.Key] = zero(desc)
	}
	return d
}

func zero(desc fieldmodel.Descriptor) any {
	switch desc.Kind {
	case fieldmodel.Enum:
		if len(desc.Options) > 0 {
			return desc.Options[0]
		}
		return ""
	case fieldmodel.Number:
		if desc.CurrentYear {
			return float64(time.Now().Year())
		}
		return float64(0)
	case fieldmodel.Boolean:
		return false
	case fieldmodel.MediaFile:
		return Media{}
	}
	return ""
}

// InitEdit returns a draft holding res's values. A localized form missing
// on res copies as "" and never inherits the default-language value. A
// number missing on res stays unset: its input is empty and ToPayload
// leaves it out until a value is entered.
func InitEdit(s fieldmodel.Schema, res models.Resource) Draft {
	d := Draft{
		schema:   s,
		id:       res.ID,
		editing:  true,
		loadedAt: res.UpdatedAt,
		values:   make(map[string]any),
	}
	for _, desc := range s.Expand() {
		if desc.Kind == fieldmodel.Number {
			n, ok := res.Num(desc.Key)
			d.values[desc.Key] = n
			if !ok {
				if d.unset == nil {
					d.unset = make(map[string]bool)
				}
				d.unset[desc.Key] = true
			}
			continue
		}
		d.values[desc.Key] = valueOf(desc, res)
	}
	return d
}

func valueOf(desc fieldmodel.Descriptor, res models.Resource) any {
	switch desc.Kind {
	case fieldmodel.Boolean:
		return res.Bool(desc.Key)
	case fieldmodel.MediaFile:
		return Media{URL: res.Str(desc.URLKey())}
	case fieldmodel.Date:
		// same calendar day the public pages show
		if t, ok := res.Time(desc.Key); ok {
			return t.In(display.IST).Format(dateLayout)
		}
		return res.Str(desc.Key)
	}
	return res.Str(desc.Key)
}

// Schema returns the schema the draft was built from.
func (d Draft) Schema() fieldmodel.Schema { return d.schema }

// ID is the record id in edit mode, "" otherwise.
func (d Draft) ID() string { return d.id }

// IsEdit reports whether the draft came from InitEdit.
func (d Draft) IsEdit() bool { return d.editing }

// LoadedAt is the record's updatedAt when the draft was initialized.
func (d Draft) LoadedAt() time.Time { return d.loadedAt }

// Unset reports whether a number slot has had no value since the record
// was loaded.
func (d Draft) Unset(key string) bool { return d.unset[key] }

// Value returns the raw value of a slot.
func (d Draft) Value(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Text returns a text slot's value, or "".
func (d Draft) Text(key string) string {
	s, _ := d.values[key].(string)
	return s
}

// Number returns a number slot's value.
func (d Draft) Number(key string) float64 {
	n, _ := d.values[key].(float64)
	return n
}

// Bool returns a flag slot's value.
func (d Draft) Bool(key string) bool {
	b, _ := d.values[key].(bool)
	return b
}

// Media returns a media slot's value.
func (d Draft) Media(key string) Media {
	m, _ := d.values[key].(Media)
	return m
}

// Input returns the string an input control shows for key. Number slots
// show rejected input verbatim so the admin can correct it.
func (d Draft) Input(key string) string {
	if s, ok := d.raw[key]; ok {
		return s
	}
	if d.unset[key] {
		return ""
	}
	switch v := d.values[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return ""
	case Media:
		return v.URL
	}
	return ""
}

// SetField returns a copy of d with one slot changed. Every other slot of
// the result holds the same value as in d.
func SetField(d Draft, key string, value any) (Draft, error) {
	desc, ok := d.schema.Lookup(key)
	if !ok {
		return d, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	v, err := coerce(desc, value)
	if err != nil {
		return d, err
	}
	out := d.clone()
	out.values[key] = v
	delete(out.raw, key)
	delete(out.unset, key)
	return out, nil
}

func coerce(desc fieldmodel.Descriptor, value any) (any, error) {
	mismatch := func() error {
		return fmt.Errorf("%w: %s is %s, got %T", ErrKindMismatch, desc.Key, desc.Kind, value)
	}
	switch desc.Kind {
	case fieldmodel.Number:
		switch n := value.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, mismatch()
	case fieldmodel.Boolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, mismatch()
	case fieldmodel.MediaFile:
		switch m := value.(type) {
		case nil:
			return Media{}, nil
		case Media:
			return m, nil
		case apiclient.File:
			m.Field = desc.Key
			return Media{File: &m}, nil
		case *apiclient.File:
			if m == nil {
				return Media{}, nil
			}
			f := *m
			f.Field = desc.Key
			return Media{File: &f}, nil
		}
		return nil, mismatch()
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return nil, mismatch()
}

func (d Draft) clone() Draft {
	out := d
	out.values = make(map[string]any, len(d.values))
	for k, v := range d.values {
		out.values[k] = v
	}
	if len(d.raw) > 0 {
		out.raw = make(map[string]string, len(d.raw))
		for k, v := range d.raw {
			out.raw[k] = v
		}
	} else {
		out.raw = nil
	}
	if len(d.unset) > 0 {
		out.unset = make(map[string]bool, len(d.unset))
		for k, v := range d.unset {
			out.unset[k] = v
		}
	} else {
		out.unset = nil
	}
	return out
}

package viewdata

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

// Option is one entry of a select box.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Filter is the select box for one of a schema's filter fields.
type Filter struct {
	Name    string
	Label   string
	Options []Option
}

// NewFilters builds the select boxes for s.FilterFields: enum options from
// the field model, numeric values (award years) from items, newest first.
// The option matching q is selected.
func NewFilters(s fieldmodel.Schema, items []models.Resource, q url.Values, lang string) []Filter {
	var out []Filter
	for _, name := range s.FilterFields {
		f, ok := s.Field(name)
		if !ok {
			continue
		}
		current := q.Get(name)
		fl := Filter{Name: name, Label: i18n.Label(lang, "field", name)}
		switch f.Kind {
		case fieldmodel.Enum:
			for _, v := range f.Options {
				fl.Options = append(fl.Options, Option{Value: v, Label: i18n.Label(lang, "option", v), Selected: v == current})
			}
		case fieldmodel.Number:
			var seen []int
			for _, it := range items {
				if n, ok := it.Num(name); ok && !slices.Contains(seen, int(n)) {
					seen = append(seen, int(n))
				}
			}
			slices.Sort(seen)
			slices.Reverse(seen)
			for _, n := range seen {
				v := strconv.Itoa(n)
				fl.Options = append(fl.Options, Option{Value: v, Label: v, Selected: v == current})
			}
		}
		out = append(out, fl)
	}
	return out
}

package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"golang.org/x/text/cases"
)

// Predicate selects records.
type Predicate func(models.Resource) bool

// All matches every record.
func All(models.Resource) bool { return true }

// Filter returns a new collection holding the items p accepts. Totals keep
// describing the server-side collection.
func Filter(c Collection, p Predicate) Collection {
	out := c
	out.Items = make([]models.Resource, 0, len(c.Items))
	for _, it := range c.Items {
		if p(it) {
			out.Items = append(out.Items, it)
		}
	}
	return out
}

// And matches when every predicate matches.
func And(ps ...Predicate) Predicate {
	return func(r models.Resource) bool {
		for _, p := range ps {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Contains matches when term occurs in any of the keys, compared with
// Unicode case folding. A blank term matches everything.
func Contains(term string, keys ...string) Predicate {
	term = strings.TrimSpace(term)
	if term == "" {
		return All
	}
	needle := cases.Fold().String(term)
	return func(r models.Resource) bool {
		fold := cases.Fold()
		for _, k := range keys {
			if strings.Contains(fold.String(r.Str(k)), needle) {
				return true
			}
		}
		return false
	}
}

// Equals matches records whose key holds exactly value. A blank value
// matches everything.
func Equals(key, value string) Predicate {
	if value == "" {
		return All
	}
	return func(r models.Resource) bool { return r.Str(key) == value }
}

// EqualsNumber matches records whose numeric key equals value. A blank
// value matches everything; a value that is not a number matches nothing.
func EqualsNumber(key, value string) Predicate {
	value = strings.TrimSpace(value)
	if value == "" {
		return All
	}
	want, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return func(models.Resource) bool { return false }
	}
	return func(r models.Resource) bool {
		n, ok := r.Num(key)
		return ok && n == want
	}
}

// SearchParam is the query parameter the admin list search box uses.
const SearchParam = "q"

// FromQuery builds the admin list predicate from request parameters: the
// search box over every language form of the schema's search fields, ANDed
// with an exact match per filter field.
func FromQuery(s fieldmodel.Schema, q url.Values) Predicate {
	ps := []Predicate{Contains(q.Get(SearchParam), s.SearchKeys()...)}
	for _, name := range s.FilterFields {
		f, ok := s.Field(name)
		if !ok {
			continue
		}
		if f.Kind == fieldmodel.Number {
			ps = append(ps, EqualsNumber(name, q.Get(name)))
		} else {
			ps = append(ps, Equals(name, q.Get(name)))
		}
	}
	return And(ps...)
}

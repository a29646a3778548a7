// Package display turns stored resources into the strings a public page
// shows for the active language.
//
// Nothing here is cached or stored; values are resolved and formatted at
// render time.
package display

import (
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
	"golang.org/x/text/message"
)

// Resolve returns the value of a localized attribute for lang. When lang is
// the default language, or the lang-specific form is absent or blank, the
// default-language form is returned. Both the bare base name and the
// explicit "_en" form count as the default form, so village profiles and
// ordinary resources resolve the same way.
func Resolve(res models.Resource, base, lang string) string {
	lang = fieldmodel.Normalize(lang)
	if lang != fieldmodel.DefaultLanguage {
		l, _ := fieldmodel.LanguageByCode(lang)
		if v := strings.TrimSpace(res.Str(base + l.Suffix)); v != "" {
			return res.Str(base + l.Suffix)
		}
	}
	return defaultValue(res, base)
}

func defaultValue(res models.Resource, base string) string {
	if v := res.Str(base); strings.TrimSpace(v) != "" {
		return v
	}
	return res.Str(base + "_" + fieldmodel.DefaultLanguage)
}

// ResolveAll resolves every localized field of schema into a map keyed by
// base name. Non-localized fields are copied as strings.
func ResolveAll(s fieldmodel.Schema, res models.Resource, lang string) map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case fieldmodel.LocalizedText:
			out[f.Name] = Resolve(res, f.Name, lang)
		case fieldmodel.MediaFile:
			d := fieldmodel.Descriptor{Field: f, Key: f.Name}
			out[f.Name] = res.Str(d.URLKey())
		default:
			out[f.Name] = res.Str(f.Name)
		}
	}
	return out
}

// Formatter formats dates and numbers for one language.
type Formatter struct {
	Lang    string
	printer *message.Printer
	loc     *time.Location
}

// IST is the zone dates are shown in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// NewFormatter returns a formatter for lang.
func NewFormatter(lang string) Formatter {
	l, ok := fieldmodel.LanguageByCode(lang)
	if !ok {
		l = fieldmodel.Languages[0]
	}
	return Formatter{Lang: l.Code, printer: message.NewPrinter(l.Tag), loc: IST}
}

// Date renders a calendar date with the month name from the catalog,
// e.g. "5 March 2024" or "5 मार्च 2024". Zero times render as "".
func (f Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(f.loc)
	month := i18n.T(f.Lang, "month."+strconv.Itoa(int(t.Month())))
	return strconv.Itoa(t.Day()) + " " + month + " " + strconv.Itoa(t.Year())
}

// DateTime renders a date with a 24h clock time.
func (f Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	local := t.In(f.loc)
	return f.Date(t) + ", " + local.Format("15:04")
}

// Number renders n with the language's digit grouping.
func (f Formatter) Number(n float64) string {
	if n == float64(int64(n)) {
		return f.printer.Sprintf("%d", int64(n))
	}
	return f.printer.Sprintf("%.2f", n)
}

// Currency renders an amount in rupees.
func (f Formatter) Currency(n float64) string {
	return "₹" + f.Number(n)
}

// Attr formats a record attribute by kind: dates become calendar dates,
// numbers get grouping, text passes through.
func (f Formatter) Attr(res models.Resource, field fieldmodel.Field) string {
	switch field.Kind {
	case fieldmodel.Date:
		if t, ok := res.Time(field.Name); ok {
			return f.Date(t)
		}
		return res.Str(field.Name)
	case fieldmodel.Number:
		n, ok := res.Num(field.Name)
		if !ok {
			return ""
		}
		// years read better without grouping
		if field.CurrentYear || strings.HasSuffix(field.Name, "Year") {
			return strconv.FormatInt(int64(n), 10)
		}
		return f.Number(n)
	case fieldmodel.Enum:
		return i18n.Label(f.Lang, "option", res.Str(field.Name))
	case fieldmodel.Boolean:
		if res.Bool(field.Name) {
			return "✓"
		}
		return ""
	}
	return res.Str(field.Name)
}

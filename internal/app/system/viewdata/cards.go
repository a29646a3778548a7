package viewdata

import (
	"html/template"

	"github.com/dalemusser/grampanchayat/internal/app/system/display"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/htmlsanitize"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

// Card is one resource resolved for display in the active language.
type Card struct {
	ID    string
	Title string
	Href  string // detail link, "" when the type has no detail page
	Image string

	// Attrs holds every field by base name, resolved and formatted.
	Attrs map[string]string
	// Rich holds long localized fields prepared as safe HTML.
	Rich map[string]template.HTML

	Created string
	Updated string
}

// NewCard resolves res for lang. hrefBase, when set, is joined with the
// record id to form the detail link.
func NewCard(s fieldmodel.Schema, res models.Resource, f display.Formatter, hrefBase string) Card {
	c := Card{
		ID:      res.ID,
		Attrs:   make(map[string]string, len(s.Fields)),
		Rich:    map[string]template.HTML{},
		Created: f.Date(res.CreatedAt),
		Updated: f.Date(res.UpdatedAt),
	}
	if hrefBase != "" && res.ID != "" {
		c.Href = hrefBase + "/" + res.ID
	}
	for _, field := range s.Fields {
		switch field.Kind {
		case fieldmodel.LocalizedText:
			v := display.Resolve(res, field.Name, f.Lang)
			c.Attrs[field.Name] = v
			if field.Long {
				c.Rich[field.Name] = htmlsanitize.PrepareForDisplay(v)
			}
		case fieldmodel.MediaFile:
			d := fieldmodel.Descriptor{Field: field, Key: field.Name}
			c.Attrs[field.Name] = res.Str(d.URLKey())
			if c.Image == "" {
				c.Image = c.Attrs[field.Name]
			}
		case fieldmodel.LongText:
			c.Attrs[field.Name] = res.Str(field.Name)
			c.Rich[field.Name] = htmlsanitize.PrepareForDisplay(res.Str(field.Name))
		default:
			c.Attrs[field.Name] = f.Attr(res, field)
		}
	}
	if n, ok := res.Num("budget"); ok && s.Type == models.TypeProjects {
		c.Attrs["budget"] = f.Currency(n)
	}
	if s.TitleField != "" {
		c.Title = c.Attrs[s.TitleField]
	}
	return c
}

// NewCards resolves a list with NewCard.
func NewCards(s fieldmodel.Schema, list []models.Resource, f display.Formatter, hrefBase string) []Card {
	out := make([]Card, 0, len(list))
	for _, res := range list {
		out = append(out, NewCard(s, res, f, hrefBase))
	}
	return out
}

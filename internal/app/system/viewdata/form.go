package viewdata

import (
	"github.com/dalemusser/grampanchayat/internal/app/system/draft"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
)

// FormField is what the "form_field" template renders for one draft slot.
type FormField struct {
	Key      string
	Lang     string
	Label    string
	Required bool
	Input    string // text, textarea, select, checkbox, file, number, date, url, email, tel
	Value    string
	Step     string
	Options  []Option
	Checked  bool
	Error    string // translated
}

// LangTab groups the localized slots of one language.
type LangTab struct {
	Code   string
	Name   string
	Open   bool // active language, or a slot in it failed validation
	Fields []FormField
}

// Form is an admin form laid out as language tabs plus the fields that are
// not localized.
type Form struct {
	Tabs      []LangTab
	Common    []FormField
	Multipart bool
	Errors    int
}

func inputFor(desc fieldmodel.Descriptor) string {
	switch desc.Kind {
	case fieldmodel.LocalizedText:
		if desc.Long {
			return "textarea"
		}
	case fieldmodel.LongText:
		return "textarea"
	case fieldmodel.Enum:
		return "select"
	case fieldmodel.Boolean:
		return "checkbox"
	case fieldmodel.MediaFile:
		return "file"
	case fieldmodel.Number:
		return "number"
	case fieldmodel.Date:
		return "date"
	case fieldmodel.URL:
		return "url"
	case fieldmodel.Email:
		return "email"
	case fieldmodel.Phone:
		return "tel"
	}
	return "text"
}

// NewForm lays out every slot of d. errs values are catalog keys.
func NewForm(d draft.Draft, errs draft.ValidationErrors, lang string) Form {
	form := Form{}
	tabs := make(map[string]*LangTab, len(fieldmodel.Languages))
	for _, l := range fieldmodel.Languages {
		form.Tabs = append(form.Tabs, LangTab{Code: l.Code, Name: l.Name, Open: l.Code == lang})
	}
	for i := range form.Tabs {
		tabs[form.Tabs[i].Code] = &form.Tabs[i]
	}

	for _, desc := range d.Schema().Expand() {
		ff := FormField{
			Key:      desc.Key,
			Lang:     desc.Lang,
			Label:    i18n.Label(lang, "field", desc.Name),
			Required: desc.Required,
			Input:    inputFor(desc),
			Value:    d.Input(desc.Key),
			Step:     desc.Step,
		}
		switch desc.Kind {
		case fieldmodel.Enum:
			for _, o := range desc.Options {
				ff.Options = append(ff.Options, Option{Value: o, Label: i18n.Label(lang, "option", o), Selected: o == ff.Value})
			}
		case fieldmodel.Boolean:
			ff.Checked = d.Bool(desc.Key)
		case fieldmodel.MediaFile:
			form.Multipart = true
		}
		if key, ok := errs[desc.Key]; ok {
			ff.Error = i18n.T(lang, key)
			form.Errors++
		}

		if tab, ok := tabs[desc.Lang]; ok {
			tab.Fields = append(tab.Fields, ff)
			if ff.Error != "" {
				tab.Open = true
			}
			continue
		}
		form.Common = append(form.Common, ff)
	}
	return form
}

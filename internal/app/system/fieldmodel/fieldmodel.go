// Package fieldmodel describes, per resource type, which attributes an
// admin form tracks and how localized attributes fan out into one wire
// field per supported language.
//
// Schemas are static tables. Expansion is a pure function of the schema and
// the Languages table, so every form, payload and search in the app sees
// the same ordered list of concrete fields.
package fieldmodel

import (
	"fmt"
	"sort"
)

// Kind classifies a field's value and the input control used to edit it.
type Kind int

const (
	PlainText Kind = iota
	LongText
	LocalizedText
	Enum
	Number
	Date
	URL
	Email
	Phone
	MediaFile
	Boolean
)

var kindNames = map[Kind]string{
	PlainText:     "plainText",
	LongText:      "longText",
	LocalizedText: "localizedText",
	Enum:          "enum",
	Number:        "number",
	Date:          "date",
	URL:           "url",
	Email:         "email",
	Phone:         "phone",
	MediaFile:     "mediaFile",
	Boolean:       "boolean",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsText reports whether values of this kind are held as strings.
func (k Kind) IsText() bool {
	switch k {
	case PlainText, LongText, LocalizedText, Enum, Date, URL, Email, Phone:
		return true
	}
	return false
}

// Field is one logical attribute of a resource type.
type Field struct {
	Name     string
	Kind     Kind
	Long     bool     // LocalizedText rendered as a textarea
	Options  []string // Enum values; the first is the create default
	Required bool     // for LocalizedText this applies to the default language only
	MinLen   int
	MaxLen   int
	Step     string // Number input step ("1", "0.01"); empty means "any"

	// DisplayKey is the attribute the backend returns a MediaFile's URL
	// under when it differs from the upload field name (gallery uploads
	// "file" but serves "url").
	DisplayKey string

	// CurrentYear makes a Number field start at the current year on create.
	CurrentYear bool
}

// Descriptor is one concrete, addressable slot produced by expansion.
type Descriptor struct {
	Field
	Key  string // wire name, e.g. "title_mr"
	Lang string // language code for localized slots, "" otherwise
}

// Localized reports whether the slot belongs to a LocalizedText field.
func (d Descriptor) Localized() bool { return d.Lang != "" }

// IsDefaultLanguage reports whether the slot is the default-language form
// of a localized field.
func (d Descriptor) IsDefaultLanguage() bool { return d.Lang == DefaultLanguage }

// URLKey is the attribute holding the stored media URL.
func (d Descriptor) URLKey() string {
	if d.DisplayKey != "" {
		return d.DisplayKey
	}
	return d.Key
}

// Schema is the static description of one resource type.
type Schema struct {
	Type   string // backend path segment and stable key
	Fields []Field

	// ExplicitDefaultSuffix is set for types whose default-language
	// attributes are stored with a suffix (the village profile uses "_en").
	ExplicitDefaultSuffix string

	Ordered      bool     // server-owned ordering with move up/down
	Singleton    bool     // one record per site, addressed without an id
	ReadOnly     bool     // admins reply/triage but never create
	SearchFields []string // base names; every language form is searched
	FilterFields []string // enum/number fields offered as exact-match filters
	Columns      []string // base names shown in the admin list
	TitleField   string   // base name used as a record's heading
}

// Path is the backend collection path for the type.
func (s Schema) Path() string { return "/" + s.Type }

// ItemPath is the backend path for one record.
func (s Schema) ItemPath(id string) string {
	if s.Singleton || id == "" {
		return s.Path()
	}
	return s.Path() + "/" + id
}

// KeyFor returns the wire name for a field in a language. Non-localized
// fields ignore lang.
func (s Schema) KeyFor(base, lang string) string {
	f, ok := s.Field(base)
	if !ok || f.Kind != LocalizedText {
		return base
	}
	return s.suffixed(base, Normalize(lang))
}

// DefaultKey is the wire name of a localized field's default-language form.
func (s Schema) DefaultKey(base string) string {
	return s.KeyFor(base, DefaultLanguage)
}

func (s Schema) suffixed(base, lang string) string {
	if lang == DefaultLanguage {
		return base + s.ExplicitDefaultSuffix
	}
	l, _ := LanguageByCode(lang)
	return base + l.Suffix
}

// Field finds a logical field by base name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Expand returns the ordered concrete descriptors for the schema. Fields
// keep schema order; a LocalizedText field emits one descriptor per
// supported language in Languages order. Every other kind emits exactly one.
func (s Schema) Expand() []Descriptor {
	out := make([]Descriptor, 0, len(s.Fields)*len(Languages))
	for _, f := range s.Fields {
		if f.Kind != LocalizedText {
			out = append(out, Descriptor{Field: f, Key: f.Name})
			continue
		}
		for _, l := range Languages {
			d := Descriptor{Field: f, Key: s.suffixed(f.Name, l.Code), Lang: l.Code}
			if l.Code != DefaultLanguage {
				d.Required = false
			}
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds the descriptor for a wire key.
func (s Schema) Lookup(key string) (Descriptor, bool) {
	for _, d := range s.Expand() {
		if d.Key == key {
			return d, true
		}
	}
	return Descriptor{}, false
}

// SearchKeys expands SearchFields into every wire key that a search term
// should be matched against.
func (s Schema) SearchKeys() []string {
	var out []string
	for _, base := range s.SearchFields {
		f, ok := s.Field(base)
		if !ok || f.Kind != LocalizedText {
			out = append(out, base)
			continue
		}
		for _, l := range Languages {
			out = append(out, s.suffixed(base, l.Code))
		}
	}
	return out
}

// HasMedia reports whether the schema includes an upload field.
func (s Schema) HasMedia() bool {
	for _, f := range s.Fields {
		if f.Kind == MediaFile {
			return true
		}
	}
	return false
}

/*─────────────────────────────────────────────────────────────────────────────*
| Registry                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Lookup returns the schema registered for a resource type.
func Lookup(resourceType string) (Schema, bool) {
	s, ok := schemas[resourceType]
	return s, ok
}

// MustLookup is Lookup for types known at compile time.
func MustLookup(resourceType string) Schema {
	s, ok := schemas[resourceType]
	if !ok {
		panic("fieldmodel: unknown resource type " + resourceType)
	}
	return s
}

// Expand returns the concrete descriptors for a resource type.
func Expand(resourceType string) ([]Descriptor, error) {
	s, ok := Lookup(resourceType)
	if !ok {
		return nil, fmt.Errorf("fieldmodel: unknown resource type %q", resourceType)
	}
	return s.Expand(), nil
}

// Types returns every registered resource type, sorted.
func Types() []string {
	out := make([]string, 0, len(schemas))
	for t := range schemas {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

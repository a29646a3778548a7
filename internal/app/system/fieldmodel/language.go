// internal/app/system/fieldmodel/language.go
package fieldmodel

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is one supported content language. The suffix is appended to a
// localized field's base name to form its wire name (title -> title_mr).
type Language struct {
	Code   string
	Suffix string
	Name   string // native name, shown in the language switcher
	Tag    language.Tag
}

// DefaultLanguage is the authoring language. Its field forms carry no
// suffix, are mandatory at creation and are the display fallback.
const DefaultLanguage = "en"

// Languages is the ordered list of supported languages. The default
// language comes first; expansion order follows this slice. Supporting a
// new language means appending one entry here.
var Languages = []Language{
	{Code: "en", Suffix: "", Name: "English", Tag: language.English},
	{Code: "mr", Suffix: "_mr", Name: "मराठी", Tag: language.Marathi},
	{Code: "hi", Suffix: "_hi", Name: "हिन्दी", Tag: language.Hindi},
}

var matcher = language.NewMatcher(tags())

func tags() []language.Tag {
	out := make([]language.Tag, 0, len(Languages))
	for _, l := range Languages {
		out = append(out, l.Tag)
	}
	return out
}

// Codes returns the supported language codes in table order.
func Codes() []string {
	out := make([]string, 0, len(Languages))
	for _, l := range Languages {
		out = append(out, l.Code)
	}
	return out
}

// LanguageByCode finds a supported language by its code (case-insensitive).
func LanguageByCode(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// IsSupported reports whether code names a supported language.
func IsSupported(code string) bool {
	_, ok := LanguageByCode(code)
	return ok
}

// Normalize maps an arbitrary code to a supported one, falling back to the
// default language.
func Normalize(code string) string {
	if l, ok := LanguageByCode(code); ok {
		return l.Code
	}
	return DefaultLanguage
}

// Match picks the best supported language for the given preferences
// (for example parsed from an Accept-Language header).
func Match(prefs ...language.Tag) Language {
	if len(prefs) == 0 {
		return Languages[0]
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(Languages) {
		return Languages[0]
	}
	return Languages[idx]
}

// MatchHeader parses an Accept-Language header and returns the best match.
func MatchHeader(acceptLanguage string) Language {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return Languages[0]
	}
	return Match(prefs...)
}

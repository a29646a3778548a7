// Package i18n holds the UI string catalogs and the request-level language
// resolution for the site.
//
// Catalogs are YAML files embedded at build time, one per supported
// language. Every message is also registered with golang.org/x/text/message
// so printers created for a language pick up the same strings.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the messages for every loaded language.
type Bundle struct {
	messages map[string]map[string]string // lang code -> key -> text
}

var defaultBundle = mustLoad()

// Default returns the embedded bundle.
func Default() *Bundle { return defaultBundle }

// Load parses every locales/*.yaml file in fsys.
func Load(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{messages: map[string]map[string]string{}}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		code := strings.TrimSpace(file.Locale)
		if !fieldmodel.IsSupported(code) {
			return nil, fmt.Errorf("catalog %s: unsupported locale %q", path, code)
		}
		if _, dup := b.messages[code]; dup {
			return nil, fmt.Errorf("catalog %s: locale %q already loaded", path, code)
		}
		b.messages[code] = file.Messages
	}
	if _, ok := b.messages[fieldmodel.DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default locale %s has no catalog", fieldmodel.DefaultLanguage)
	}
	return b, nil
}

// Register publishes every message to golang.org/x/text/message.
func (b *Bundle) Register() error {
	for code, msgs := range b.messages {
		lang, ok := fieldmodel.LanguageByCode(code)
		if !ok {
			continue
		}
		for key, text := range msgs {
			if err := message.SetString(lang.Tag, key, text); err != nil {
				return fmt.Errorf("register %s/%s: %w", code, key, err)
			}
		}
	}
	return nil
}

// T returns the message for key in lang, falling back to the default
// language and finally to the key itself.
func (b *Bundle) T(lang, key string) string {
	if msgs, ok := b.messages[lang]; ok {
		if s, ok := msgs[key]; ok && s != "" {
			return s
		}
	}
	if s, ok := b.messages[fieldmodel.DefaultLanguage][key]; ok {
		return s
	}
	return key
}

// Messages returns the full message map for lang with default-language
// fallback applied per key. Views index into it from templates.
func (b *Bundle) Messages(lang string) map[string]string {
	base := b.messages[fieldmodel.DefaultLanguage]
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range b.messages[lang] {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Keys returns the keys defined for lang, sorted.
func (b *Bundle) Keys(lang string) []string {
	out := make([]string, 0, len(b.messages[lang]))
	for k := range b.messages[lang] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// T looks up a message in the default bundle.
func T(lang, key string) string { return defaultBundle.T(lang, key) }

// Messages returns the default bundle's messages for lang.
func Messages(lang string) map[string]string { return defaultBundle.Messages(lang) }

// Label returns the display label for a field or option, e.g.
// Label("mr", "field", "title") -> "शीर्षक".
func Label(lang, group, name string) string {
	key := group + "." + name
	if s := defaultBundle.T(lang, key); s != key {
		return s
	}
	return name
}

func mustLoad() *Bundle {
	b, err := Load(localesFS)
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}

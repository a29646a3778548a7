// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/grampanchayat/internal/app/system/auth"
	"github.com/dalemusser/grampanchayat/internal/app/system/display"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// Flash query parameter carrying a catalog key to show once after a
// redirect (?flash=msg.created).
const FlashParam = "flash"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type newsPageData struct {
//	    viewdata.BaseVM
//	    Items []newsRow
//	}
//
//	data := newsPageData{BaseVM: viewdata.NewBaseVM(r, "nav.news", "/")}
type BaseVM struct {
	SiteName string

	// Language context
	Lang      string
	T         map[string]string // UI strings for Lang, default-language fallback applied
	Languages []i18n.LanguageOption
	Fmt       display.Formatter

	// Admin context (from auth middleware)
	IsLoggedIn bool
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Flash       string // translated one-shot notice
	Error       string // translated or verbatim server error banner

	// CSRF protection
	CSRFToken string
	CSRFField template.HTML
}

// NewBaseVM creates a fully populated BaseVM for a page. titleKey is a
// catalog key; backDefault is the back link when the request names none.
func NewBaseVM(r *http.Request, titleKey, backDefault string) BaseVM {
	lang := i18n.FromRequest(r)
	msgs := i18n.Messages(lang)

	vm := BaseVM{
		SiteName:    msgs["site.title"],
		Lang:        lang,
		T:           msgs,
		Languages:   i18n.Options(lang, r.URL.Path, r.URL.RawQuery),
		Fmt:         display.NewFormatter(lang),
		Title:       i18n.T(lang, titleKey),
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		CSRFField:   csrf.TemplateField(r),
	}
	if u, ok := auth.CurrentUser(r); ok && u != nil {
		vm.IsLoggedIn = true
		vm.UserName = u.Name
	}
	if key := r.URL.Query().Get(FlashParam); key != "" {
		// only catalog keys are shown; anything else is dropped
		if s := i18n.T(lang, key); s != key {
			vm.Flash = s
		}
	}
	return vm
}

// WithError sets the error banner. A catalog key is translated; any other
// text (a backend message) is shown verbatim.
func (vm *BaseVM) WithError(keyOrMessage string) {
	vm.Error = i18n.T(vm.Lang, keyOrMessage)
}

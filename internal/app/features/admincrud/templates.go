// internal/app/features/admincrud/templates.go
package admincrud

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "admincrud",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

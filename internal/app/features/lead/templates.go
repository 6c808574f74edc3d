// internal/app/features/lead/templates.go
package lead

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "lead",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

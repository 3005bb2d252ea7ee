package console

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

var registerOnce sync.Once

// RegisterTemplates adds the console page set to the template registry. It
// must run before the engine boots.
func RegisterTemplates() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     "console",
			FS:       FS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}

package fixture

import "io"

// TemplateRenderer is the seam between the engine and whichever template
// implementation renders fixture sources. The built-in implementation lives
// under internal/gotemplate and is pongo2-backed; callers can swap in their
// own environment through WithTemplateEngine.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

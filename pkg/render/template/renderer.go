package template

import (
	"io"
)

// TemplateRenderer is the seam between section/page rendering and the
// template engine. Names are resolved relative to the engine's template root
// without the file extension ("sections/hero").
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
	Exists(name string) bool
}

package render

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	markdownPolicy = sync.OnceValue(bluemonday.UGCPolicy)
	iconPolicy     = sync.OnceValue(newIconPolicy)

	iconName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
)

// Markdown converts author-supplied markdown to sanitised HTML.
func Markdown(source string) string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	out := markdown.ToHTML([]byte(trimmed), p, renderer)
	return strings.TrimSpace(string(markdownPolicy().SanitizeBytes(out)))
}

// Icon renders a feature icon. Inline SVG markup is sanitised; a bare name
// becomes a class hook for the theme's icon font. Anything else is dropped.
func Icon(value string) string {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return ""
	case strings.HasPrefix(trimmed, "<"):
		return strings.TrimSpace(iconPolicy().Sanitize(trimmed))
	case iconName.MatchString(trimmed):
		return `<i class="icon icon-` + trimmed + `" aria-hidden="true"></i>`
	default:
		return ""
	}
}

func newIconPolicy() *bluemonday.Policy {
	policy := bluemonday.StrictPolicy()
	policy.AllowElements(
		"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon",
		"ellipse", "title", "desc", "defs", "use", "clipPath",
	)
	policy.AllowAttrs(
		"xmlns", "viewBox", "width", "height", "fill", "stroke",
		"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden",
		"role", "focusable", "class",
	).OnElements("svg")
	policy.AllowAttrs("href", "xlink:href", "clip-path").OnElements("use")
	policy.AllowAttrs(
		"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
		"points", "rx", "ry", "fill", "stroke", "stroke-width",
		"stroke-linecap", "stroke-linejoin", "class",
	).OnElements("path", "circle", "rect", "line", "polyline", "polygon", "ellipse")
	policy.AllowAttrs("id", "clipPathUnits").OnElements("clipPath")
	policy.AllowAttrs("id").OnElements("defs", "g")
	return policy
}

package render

import "embed"

// Templates holds the built-in page, wrapper and section templates.
//
//go:embed templates/*.tmpl templates/sections/*.tmpl
var Templates embed.FS

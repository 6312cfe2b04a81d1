// Package template defines the engine-agnostic template contract used by the
// render dispatcher. The gotemplate subpackage provides the pongo2 backed
// implementation.
package template

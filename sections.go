// Package sections is the quick-start entry point: decode a site document,
// render it, or start an editing session without importing the sub-packages
// one by one.
package sections

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-sections/pkg/render"
	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/session"
)

// SiteConfig is the page document.
type SiteConfig = section.SiteConfig

// Section is any section variant.
type Section = section.Section

// Type is the section discriminator.
type Type = section.Type

// Decode parses a JSON site document.
func Decode(data []byte) (SiteConfig, error) {
	return section.Decode(data)
}

// NewDispatcher exposes the render dispatcher constructor.
func NewDispatcher(options ...render.Option) (*render.Dispatcher, error) {
	return render.New(options...)
}

// RenderHTML renders cfg as a full page with the built-in templates unless
// options say otherwise.
func RenderHTML(ctx context.Context, cfg SiteConfig, options ...render.Option) ([]byte, error) {
	d, err := render.New(options...)
	if err != nil {
		return nil, err
	}
	return d.RenderPage(ctx, cfg)
}

// RenderJSON decodes data and renders it.
func RenderJSON(ctx context.Context, data []byte, options ...render.Option) ([]byte, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return RenderHTML(ctx, cfg, options...)
}

// WithThemeSelector forwards a go-theme selector to the dispatcher.
func WithThemeSelector(selector theme.ThemeSelector) render.Option {
	return render.WithThemeSelector(selector)
}

// WithThemeManifests registers manifests in a ManifestSelector defaulting to
// defaultTheme.
func WithThemeManifests(defaultTheme string, manifests ...*theme.Manifest) render.Option {
	return render.WithThemeSelector(render.NewManifestSelector(defaultTheme, manifests...))
}

// NewSession starts a document session over backend.
func NewSession(backend session.Backend, options ...session.Option) *session.Session {
	return session.New(backend, options...)
}

// EmbeddedTemplates exposes the built-in page and section templates so callers
// can copy or extend them.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(render.Templates, "templates")
	if err != nil {
		return render.Templates
	}
	return sub
}

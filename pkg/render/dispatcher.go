package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-sections/pkg/render/template"
	"github.com/goliatone/go-sections/pkg/render/template/gotemplate"
	"github.com/goliatone/go-sections/pkg/section"
)

// ErrUnhandledVariant is the panic value raised when a section variant has no
// template mapping. Adding a variant without a template is a programming error.
var ErrUnhandledVariant = errors.New("render: unhandled section variant")

// MediaResolver turns stored media keys into public URLs.
type MediaResolver interface {
	Resolve(key string) string
}

// MediaResolverFunc adapts a function to MediaResolver.
type MediaResolverFunc func(string) string

// Resolve implements MediaResolver.
func (fn MediaResolverFunc) Resolve(key string) string { return fn(key) }

type identityResolver struct{}

func (identityResolver) Resolve(key string) string { return key }

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTemplateRenderer replaces the template engine. The renderer must know
// every name returned by TemplateName plus "page" and "wrapper".
func WithTemplateRenderer(r template.TemplateRenderer) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.templates = r
		}
	}
}

// WithTemplatesDir loads templates from a directory, falling back to the
// embedded set for any template the directory does not provide.
func WithTemplatesDir(dir string) Option {
	return func(d *Dispatcher) {
		d.templatesDir = strings.TrimSpace(dir)
	}
}

// WithMediaResolver sets the resolver used by the media() template helper.
func WithMediaResolver(r MediaResolver) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.media = r
		}
	}
}

// WithThemeSelector enables manifest-backed theme resolution for pages.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(d *Dispatcher) {
		d.themes = selector
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher maps sections to their templates and renders pages.
type Dispatcher struct {
	templates    template.TemplateRenderer
	templatesDir string
	media        MediaResolver
	themes       theme.ThemeSelector
	logger       *slog.Logger
}

// New builds a Dispatcher. Without WithTemplateRenderer the embedded
// templates are served through the pongo2 engine.
func New(options ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		media:  identityResolver{},
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	if d.templates == nil {
		engine, err := defaultEngine(d.templatesDir)
		if err != nil {
			return nil, err
		}
		d.templates = engine
	}
	if err := d.templates.GlobalContext(map[string]any{
		"media":     d.media.Resolve,
		"markdown":  Markdown,
		"icon":      Icon,
		"anchor":    plainAnchor,
		"navAnchor": navAnchor,
	}); err != nil {
		return nil, fmt.Errorf("render: register template helpers: %w", err)
	}
	return d, nil
}

func defaultEngine(dir string) (*gotemplate.Engine, error) {
	files, err := fs.Sub(Templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("render: open embedded templates: %w", err)
	}
	opts := []gotemplate.Option{gotemplate.WithFS(files)}
	if dir != "" {
		opts = append(opts, gotemplate.WithBaseDir(dir))
	}
	engine, err := gotemplate.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("render: init template engine: %w", err)
	}
	return engine, nil
}

// TemplateName returns the template for a section. Every catalog variant has
// a mapping; anything else panics with ErrUnhandledVariant.
func TemplateName(s section.Section) string {
	switch s.(type) {
	case *section.Header:
		return "sections/header"
	case *section.Hero:
		return "sections/hero"
	case *section.Features:
		return "sections/features"
	case *section.CTA:
		return "sections/cta"
	case *section.Newsletter:
		return "sections/newsletter"
	case *section.Contact:
		return "sections/contact"
	case *section.Scheduling:
		return "sections/scheduling"
	case *section.Footer:
		return "sections/footer"
	case *section.Testimonials:
		return "sections/testimonials"
	case *section.Stats:
		return "sections/stats"
	case *section.About:
		return "sections/about"
	case *section.Disclaimer:
		return "sections/disclaimer"
	case *section.Sectional:
		return "sections/sectional"
	case *section.Skills:
		return "sections/skills"
	case *section.Pricing:
		return "sections/pricing"
	case *section.Share:
		return "sections/share"
	case *section.Partners:
		return "sections/partners"
	case *section.Instagram:
		return "sections/instagram"
	case *section.Gallery:
		return "sections/gallery"
	case *section.Socials:
		return "sections/socials"
	case *section.Video:
		return "sections/video"
	case *section.ProductListings:
		return "sections/productListings"
	case *section.Persons:
		return "sections/persons"
	default:
		panic(fmt.Errorf("%w: %T", ErrUnhandledVariant, s))
	}
}

// navigational sections see the whole sibling list.
func isNavigation(s section.Section) bool {
	switch s.(type) {
	case *section.Header, *section.Footer:
		return true
	default:
		return false
	}
}

func wrapperTag(s section.Section) string {
	switch s.(type) {
	case *section.Header:
		return "header"
	case *section.Footer:
		return "footer"
	default:
		return "section"
	}
}

// RenderSection renders one section. Hidden sections produce no markup.
// Header and footer receive siblings so their links can be checked against
// the ids on the page; dangling anchors degrade to "#".
func (d *Dispatcher) RenderSection(ctx context.Context, s section.Section, siblings []section.Section) (string, error) {
	name := TemplateName(s)
	if !section.IsVisible(s) {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := map[string]any{
		"section": s,
	}
	if isNavigation(s) {
		data["sections"] = siblings
		data["anchors"] = anchorTargets(siblings)
	}

	body, err := d.templates.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("render: section %q: %w", section.ID(s), err)
	}
	html, err := d.templates.RenderTemplate("wrapper", map[string]any{
		"tag":     wrapperTag(s),
		"id":      section.ID(s),
		"kind":    string(s.SectionType()),
		"section": s.Common(),
		"body":    body,
	})
	if err != nil {
		return "", fmt.Errorf("render: wrap section %q: %w", section.ID(s), err)
	}
	return html, nil
}

// RenderPage renders the full document in order, skipping hidden sections.
func (d *Dispatcher) RenderPage(ctx context.Context, cfg section.SiteConfig) ([]byte, error) {
	themeCtx, err := ResolveTheme(d.themes, cfg.Theme)
	if err != nil {
		return nil, err
	}
	if dangling := section.DanglingAnchors(cfg); len(dangling) > 0 {
		d.logger.Debug("render: dangling anchors", "count", len(dangling), "first", dangling[0].Target)
	}

	blocks := make([]string, 0, len(cfg.Sections))
	for _, s := range cfg.Sections {
		html, err := d.RenderSection(ctx, s, cfg.Sections)
		if err != nil {
			return nil, err
		}
		if html != "" {
			blocks = append(blocks, html)
		}
	}

	page, err := d.templates.RenderTemplate("page", map[string]any{
		"meta":   cfg.Meta,
		"theme":  themeData(themeCtx),
		"blocks": blocks,
	})
	if err != nil {
		return nil, fmt.Errorf("render: page: %w", err)
	}
	return []byte(page), nil
}

func plainAnchor(href string) string {
	if target, ok := section.AnchorTarget(href); ok {
		return "#" + target
	}
	return href
}

// anchorTargets lists the ids a navigation link can point at: the visible
// sections, since hidden ones leave no element on the page.
func anchorTargets(siblings []section.Section) []string {
	ids := make([]string, 0, len(siblings))
	for _, s := range siblings {
		if section.IsVisible(s) {
			ids = append(ids, section.ID(s))
		}
	}
	return ids
}

// navAnchor resolves href against targets; an internal link whose target is
// not on the page becomes "#".
func navAnchor(href string, targets []any) string {
	target, ok := section.AnchorTarget(href)
	if !ok {
		return href
	}
	for _, id := range targets {
		if id == target {
			return "#" + target
		}
	}
	return "#"
}

package render

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-sections/pkg/section"
)

// ErrThemeNotFound is returned when neither the requested nor the default
// theme is registered.
var ErrThemeNotFound = errors.New("render: theme not found")

// StylesheetAsset is the manifest asset key emitted as the page stylesheet.
const StylesheetAsset = "stylesheet"

// ResolveTheme merges manifest tokens, variant tokens and document tokens, in
// that order of precedence (last wins), and derives CSS variables from them.
// A nil selector or an unnamed theme uses the document tokens alone.
func ResolveTheme(selector theme.ThemeSelector, doc section.Theme) (*theme.RendererConfig, error) {
	cfg := &theme.RendererConfig{
		Theme:    doc.Name,
		Variant:  doc.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		AssetURL: func(string) string { return "" },
	}

	if selector != nil && strings.TrimSpace(doc.Name) != "" {
		selection, err := selector.Select(doc.Name, doc.Variant)
		if err != nil {
			return nil, fmt.Errorf("render: select theme %q: %w", doc.Name, err)
		}
		if selection != nil && selection.Manifest != nil {
			applySelection(cfg, selection)
		}
	}

	maps.Copy(cfg.Tokens, doc.Tokens)
	cfg.CSSVars = cssVars(cfg.Tokens)
	return cfg, nil
}

func applySelection(cfg *theme.RendererConfig, selection *theme.Selection) {
	manifest := selection.Manifest
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant
	maps.Copy(cfg.Tokens, manifest.Tokens)
	maps.Copy(cfg.Partials, manifest.Templates)

	prefix := manifest.Assets.Prefix
	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(cfg.Tokens, variant.Tokens)
		maps.Copy(cfg.Partials, variant.Templates)
		maps.Copy(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "/") {
			return file
		}
		if prefix == "" {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + path.Clean(file)
	}
}

func cssVars(tokens map[string]string) map[string]string {
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		out[name] = value
	}
	return out
}

// CSSVarsStyle renders CSS variables as a declaration list sorted by name.
func CSSVarsStyle(vars map[string]string) string {
	names := slices.Sorted(maps.Keys(vars))
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.NewReplacer(";", "", "}", "", "<", "").Replace(vars[name]))
		b.WriteByte(';')
	}
	return b.String()
}

func themeData(cfg *theme.RendererConfig) map[string]any {
	return map[string]any{
		"name":         cfg.Theme,
		"variant":      cfg.Variant,
		"tokens":       cfg.Tokens,
		"cssVars":      cfg.CSSVars,
		"cssVarsStyle": CSSVarsStyle(cfg.CSSVars),
		"stylesheet":   cfg.AssetURL(StylesheetAsset),
	}
}

// ManifestSelector selects themes from a fixed set of manifests, falling back
// to a default theme when the requested one is unknown. Unknown variants
// resolve to the base theme.
type ManifestSelector struct {
	mu           sync.RWMutex
	manifests    map[string]*theme.Manifest
	defaultTheme string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests under their names.
func NewManifestSelector(defaultTheme string, manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{
		manifests:    make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme: strings.TrimSpace(defaultTheme),
	}
	for _, m := range manifests {
		s.Register(m)
	}
	return s
}

// Register adds or replaces a manifest. Nil and unnamed manifests are ignored.
func (s *ManifestSelector) Register(m *theme.Manifest) {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[m.Name] = m
}

// Names lists registered themes sorted by name.
func (s *ManifestSelector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.manifests))
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest, ok := s.manifests[name]
	if !ok {
		manifest, ok = s.manifests[s.defaultTheme]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if _, known := manifest.Variants[variant]; !known {
		variant = ""
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

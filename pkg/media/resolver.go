package media

import (
	"path"
	"strings"
)

// Resolver turns a section media value into a renderable URL. Values are
// either absolute URLs or opaque storage keys scoped by site namespace.
type Resolver struct {
	BaseURL string
}

// Resolve returns keyOrURL unchanged when it is already addressable (absolute,
// protocol-relative, root-relative or a data URI); otherwise it is joined to
// BaseURL. An empty value resolves to "".
func (r Resolver) Resolve(keyOrURL string) string {
	value := strings.TrimSpace(keyOrURL)
	if value == "" {
		return ""
	}
	if IsURL(value) {
		return value
	}
	base := strings.TrimRight(strings.TrimSpace(r.BaseURL), "/")
	key := strings.TrimLeft(value, "/")
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}

// IsURL reports whether value is directly addressable by a browser.
func IsURL(value string) bool {
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return true
	case strings.HasPrefix(lower, "//"), strings.HasPrefix(lower, "/"):
		return true
	case strings.HasPrefix(lower, "data:"), strings.HasPrefix(lower, "blob:"):
		return true
	}
	return false
}

// SitePrefix returns the storage prefix for a site's assets, optionally
// narrowed to a sub folder: configs/{siteID}/assets/{sub}/.
func SitePrefix(siteID string, sub ...string) string {
	parts := append([]string{"configs", strings.TrimSpace(siteID), "assets"}, sub...)
	return path.Join(parts...) + "/"
}

// Package store persists site documents per site and variant.
package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-sections/pkg/section"
)

// ErrNotFound is returned when no document is stored for a site/variant.
var ErrNotFound = errors.New("store: document not found")

// Store is the server-side document repository. Put normalises the document
// and returns exactly what a later Get will return.
type Store interface {
	Get(ctx context.Context, siteID, variant string) (section.SiteConfig, error)
	Put(ctx context.Context, siteID, variant string, cfg section.SiteConfig) (section.SiteConfig, error)
	Sites(ctx context.Context) ([]string, error)
	Close() error
}

type memoryKey struct {
	site    string
	variant string
}

// Memory keeps documents in process memory.
type Memory struct {
	mu   sync.RWMutex
	docs map[memoryKey]section.SiteConfig
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[memoryKey]section.SiteConfig)}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, siteID, variant string) (section.SiteConfig, error) {
	if err := ctx.Err(); err != nil {
		return section.SiteConfig{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.docs[memoryKey{siteID, variant}]
	if !ok {
		return section.SiteConfig{}, ErrNotFound
	}
	return cfg.Clone(), nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, siteID, variant string, cfg section.SiteConfig) (section.SiteConfig, error) {
	if err := ctx.Err(); err != nil {
		return section.SiteConfig{}, err
	}
	normalized := section.Normalize(cfg)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[memoryKey{siteID, variant}] = normalized
	return normalized.Clone(), nil
}

// Sites implements Store.
func (m *Memory) Sites(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for key := range m.docs {
		if !slices.Contains(out, key.site) {
			out = append(out, key.site)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

// ValidSiteID reports whether id is usable as a site identifier and media
// namespace: non-empty, no slashes, no dot segments.
func ValidSiteID(id string) bool {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || trimmed != id || trimmed == "." || trimmed == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\?#`)
}

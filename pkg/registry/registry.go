package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-sections/pkg/section"
)

// ErrUnknownType is returned when a type has no registry entry.
var ErrUnknownType = errors.New("registry: unknown section type")

// Factory builds a structurally complete section with defaults. The registry
// assigns the id and tag after the factory returns.
type Factory func() section.Section

// Entry describes one section type.
type Entry struct {
	Type    section.Type
	Label   string
	Allowed bool
	Factory Factory
}

// IDGenerator produces a fresh section id for a type.
type IDGenerator func(section.Type) string

// Option customises a registry at construction time.
type Option func(*Registry)

// WithIDGenerator overrides the id scheme, mostly for deterministic tests.
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Registry) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// Registry maps section types to labels, the allowed flag and factories. It is
// immutable once built: the With* methods return modified copies so one
// session's menu choices never leak into another's.
type Registry struct {
	entries []Entry
	index   map[section.Type]int
	newID   IDGenerator
}

// New builds a registry from entries, keeping their order. Duplicate or
// unknown types and nil factories are rejected.
func New(entries []Entry, options ...Option) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[section.Type]int, len(entries)),
		newID:   NewID,
	}
	for _, entry := range entries {
		if !entry.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, entry.Type)
		}
		if entry.Factory == nil {
			return nil, fmt.Errorf("registry: factory for %q is nil", entry.Type)
		}
		if _, exists := r.index[entry.Type]; exists {
			return nil, fmt.Errorf("registry: type %q already registered", entry.Type)
		}
		r.index[entry.Type] = len(r.entries)
		r.entries = append(r.entries, entry)
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// MustNew panics on construction failure. Useful for package-level tables.
func MustNew(entries []Entry, options ...Option) *Registry {
	r, err := New(entries, options...)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return MustNew(builtinEntries())
})

// Default returns the built-in registry covering the whole catalog.
func Default() *Registry {
	return defaultRegistry()
}

// NewID returns "<type>-<uuid>". Uniqueness across the document is not
// checked; a v4 suffix makes collisions negligible at authoring scale.
func NewID(t section.Type) string {
	return string(t) + "-" + uuid.NewString()
}

// Create returns a default instance of t with a fresh id.
func (r *Registry) Create(t section.Type) (section.Section, error) {
	entry, ok := r.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	s := entry.Factory()
	if s == nil || s.SectionType() != t {
		return nil, fmt.Errorf("registry: factory for %q returned a mismatched section", t)
	}
	base := s.Common()
	base.Type = t
	base.ID = r.newID(t)
	return s, nil
}

// MustCreate panics when t is unknown.
func (r *Registry) MustCreate(t section.Type) section.Section {
	s, err := r.Create(t)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the entry for t.
func (r *Registry) Lookup(t section.Type) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	idx, ok := r.index[t]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// LabelOf returns the human-readable name of t, falling back to the raw tag.
func (r *Registry) LabelOf(t section.Type) string {
	if entry, ok := r.Lookup(t); ok && entry.Label != "" {
		return entry.Label
	}
	return string(t)
}

// Allowed reports whether t may be added through the "add section" menu.
func (r *Registry) Allowed(t section.Type) bool {
	entry, ok := r.Lookup(t)
	return ok && entry.Allowed
}

// AllowedTypes lists enabled types in registration order.
func (r *Registry) AllowedTypes() []section.Type {
	if r == nil {
		return nil
	}
	out := make([]section.Type, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.Allowed {
			out = append(out, entry.Type)
		}
	}
	return out
}

// Types lists every registered type in registration order.
func (r *Registry) Types() []section.Type {
	if r == nil {
		return nil
	}
	out := make([]section.Type, len(r.entries))
	for i, entry := range r.entries {
		out[i] = entry.Type
	}
	return out
}

// WithAllowed returns a copy where exactly the given types are allowed.
func (r *Registry) WithAllowed(types ...section.Type) *Registry {
	return r.withFlags(func(t section.Type) bool {
		return slices.Contains(types, t)
	})
}

// WithDisabled returns a copy with the given types removed from the menu.
func (r *Registry) WithDisabled(types ...section.Type) *Registry {
	return r.withFlags(func(t section.Type) bool {
		entry, _ := r.Lookup(t)
		return entry.Allowed && !slices.Contains(types, t)
	})
}

func (r *Registry) withFlags(allowed func(section.Type) bool) *Registry {
	out := &Registry{
		entries: slices.Clone(r.entries),
		index:   make(map[section.Type]int, len(r.index)),
		newID:   r.newID,
	}
	for i := range out.entries {
		out.entries[i].Allowed = allowed(out.entries[i].Type)
		out.index[out.entries[i].Type] = i
	}
	return out
}

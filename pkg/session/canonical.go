package session

import (
	"sync"

	"github.com/goliatone/go-sections/pkg/section"
)

// Canonical holds the shared, last-saved document that pages render from.
// Writes are last-write-wins; there is no conflict detection.
type Canonical struct {
	mu      sync.RWMutex
	cfg     section.SiteConfig
	version uint64
	nextSub int
	subs    map[int]func(section.SiteConfig, uint64)
}

// NewCanonical seeds the holder with cfg.
func NewCanonical(cfg section.SiteConfig) *Canonical {
	return &Canonical{
		cfg:  cfg.Clone(),
		subs: make(map[int]func(section.SiteConfig, uint64)),
	}
}

// Get returns a copy of the current document and its version.
func (c *Canonical) Get() (section.SiteConfig, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.Clone(), c.version
}

// Version returns the number of replacements so far.
func (c *Canonical) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Replace swaps the document and notifies subscribers synchronously.
func (c *Canonical) Replace(cfg section.SiteConfig) uint64 {
	c.mu.Lock()
	c.cfg = cfg.Clone()
	c.version++
	version := c.version
	subs := make([]func(section.SiteConfig, uint64), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(cfg.Clone(), version)
	}
	return version
}

// Subscribe registers fn for future replacements. The returned func removes it.
func (c *Canonical) Subscribe(fn func(section.SiteConfig, uint64)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = make(map[int]func(section.SiteConfig, uint64))
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

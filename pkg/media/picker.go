package media

import (
	"context"
	"sync"
)

// Pending is a single-shot future for a picker interaction. It is fulfilled
// exactly once, either with a key or with "none" on cancellation; later
// fulfilment attempts are ignored.
type Pending struct {
	once sync.Once
	done chan struct{}
	key  string
	ok   bool
}

// NewPending returns an unfulfilled future.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolve fulfils the future with a key. An empty key is a legitimate
// "cleared" value and is distinct from cancellation. It reports whether this
// call fulfilled the future.
func (p *Pending) Resolve(key string) bool {
	return p.fulfil(key, true)
}

// Cancel fulfils the future with "none".
func (p *Pending) Cancel() bool {
	return p.fulfil("", false)
}

func (p *Pending) fulfil(key string, ok bool) bool {
	fulfilled := false
	p.once.Do(func() {
		p.key = key
		p.ok = ok
		fulfilled = true
		close(p.done)
	})
	return fulfilled
}

// Done is closed once the future is fulfilled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the future is fulfilled or ctx ends. ok is false when the
// picker was dismissed; callers must then leave the field unchanged.
func (p *Pending) Await(ctx context.Context) (key string, ok bool, err error) {
	select {
	case <-p.done:
		return p.key, p.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Picker opens a media picker rooted at prefix and returns its future.
type Picker interface {
	Open(ctx context.Context, prefix string) *Pending
}

// PickerFunc adapts a function to the Picker interface.
type PickerFunc func(ctx context.Context, prefix string) *Pending

func (f PickerFunc) Open(ctx context.Context, prefix string) *Pending {
	return f(ctx, prefix)
}

// Cancelled returns an already dismissed future.
func Cancelled() *Pending {
	p := NewPending()
	p.Cancel()
	return p
}

// Resolved returns an already fulfilled future.
func Resolved(key string) *Pending {
	p := NewPending()
	p.Resolve(key)
	return p
}

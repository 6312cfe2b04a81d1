package editor

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/goliatone/go-sections/pkg/media"
	"github.com/goliatone/go-sections/pkg/section"
)

// Env is what an editor may touch besides its own section.
type Env struct {
	// OnChange receives the whole updated section. Editors call it at most
	// once per Edit, and only on success.
	OnChange func(section.Section)
	// Media opens the asset picker. Nil disables library picks.
	Media media.Picker
	// SiteID namespaces media uploads and listings.
	SiteID string
}

func (e Env) commit(s section.Section) {
	if e.OnChange != nil {
		e.OnChange(s)
	}
}

// Editor edits one section. Implementations start from current.Clone() so
// fields they do not touch are carried forward.
type Editor interface {
	Edit(ctx context.Context, current section.Section, env Env) error
}

// EditorFunc adapts a function to Editor.
type EditorFunc func(ctx context.Context, current section.Section, env Env) error

// Edit implements Editor.
func (fn EditorFunc) Edit(ctx context.Context, current section.Section, env Env) error {
	return fn(ctx, current, env)
}

// promptEditor runs fill over a clone of the section and commits the result.
type promptEditor[T section.Section] struct {
	driver PromptDriver
	fill   func(*Form, T)
}

func (e promptEditor[T]) Edit(ctx context.Context, current section.Section, env Env) error {
	if current == nil {
		return fmt.Errorf("%w: nil section", ErrWrongVariant)
	}
	next, ok := current.Clone().(T)
	if !ok {
		return fmt.Errorf("%w: got %s", ErrWrongVariant, current.SectionType())
	}
	form := NewForm(ctx, e.driver, env)
	e.fill(form, next)
	if err := form.Err(); err != nil {
		return err
	}
	env.commit(next)
	return nil
}

// Placeholder stands in for types without an editor. It tells the admin and
// leaves the section untouched.
type Placeholder struct {
	Driver PromptDriver
	Label  string
}

// Edit implements Editor.
func (p Placeholder) Edit(ctx context.Context, current section.Section, _ Env) error {
	label := p.Label
	if label == "" && current != nil {
		label = string(current.SectionType())
	}
	if p.Driver == nil {
		return nil
	}
	return p.Driver.Info(ctx, fmt.Sprintf("No editor yet for %s sections.", label))
}

// IsPlaceholder reports whether e is the missing-editor stand-in.
func IsPlaceholder(e Editor) bool {
	_, ok := e.(Placeholder)
	return ok
}

// DispatchOption customises a Dispatch.
type DispatchOption func(*Dispatch)

// WithEditor registers or replaces the editor for t.
func WithEditor(t section.Type, e Editor) DispatchOption {
	return func(d *Dispatch) {
		if e != nil {
			d.editors[t] = e
		}
	}
}

// WithoutEditor removes the editor for t so it resolves to a Placeholder.
func WithoutEditor(t section.Type) DispatchOption {
	return func(d *Dispatch) {
		delete(d.editors, t)
	}
}

// WithLabels sets how placeholder messages name a type.
func WithLabels(labelOf func(section.Type) string) DispatchOption {
	return func(d *Dispatch) {
		if labelOf != nil {
			d.labelOf = labelOf
		}
	}
}

// Dispatch maps section types to editors. The mapping is partial on purpose:
// a type without an editor is a supported state.
type Dispatch struct {
	driver  PromptDriver
	editors map[section.Type]Editor
	labelOf func(section.Type) string
}

// NewDispatch builds the built-in prompt editors on top of driver and applies
// overrides.
func NewDispatch(driver PromptDriver, options ...DispatchOption) *Dispatch {
	d := &Dispatch{
		driver:  driver,
		editors: builtinEditors(driver),
		labelOf: func(t section.Type) string { return string(t) },
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Get returns the editor for t, if any.
func (d *Dispatch) Get(t section.Type) (Editor, bool) {
	e, ok := d.editors[t]
	return e, ok
}

// Resolve returns the editor for t or a Placeholder.
func (d *Dispatch) Resolve(t section.Type) Editor {
	if e, ok := d.Get(t); ok {
		return e
	}
	return Placeholder{Driver: d.driver, Label: d.labelOf(t)}
}

// Types lists the types that have an editor, in catalog order.
func (d *Dispatch) Types() []section.Type {
	keys := slices.Collect(maps.Keys(d.editors))
	order := section.Types()
	slices.SortFunc(keys, func(a, b section.Type) int {
		return slices.Index(order, a) - slices.Index(order, b)
	})
	return keys
}

// AppearanceEditor edits the fields every section shares.
func AppearanceEditor(driver PromptDriver) Editor {
	return EditorFunc(func(ctx context.Context, current section.Section, env Env) error {
		if current == nil {
			return fmt.Errorf("%w: nil section", ErrWrongVariant)
		}
		next := current.Clone()
		base := next.Common()
		form := NewForm(ctx, driver, env)
		base.Visible = section.Bool(form.Bool("Visible on the page?", section.IsVisible(current)))
		base.BackgroundClass = form.Text("Background class", base.BackgroundClass)
		base.TopWaveType = form.Text("Top wave", base.TopWaveType)
		base.BottomWaveType = form.Text("Bottom wave", base.BottomWaveType)
		if err := form.Err(); err != nil {
			return err
		}
		env.commit(next)
		return nil
	})
}

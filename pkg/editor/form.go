package editor

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-sections/pkg/media"
	"github.com/goliatone/go-sections/pkg/section"
)

// Form wraps a PromptDriver with field-level helpers. The first prompt error
// is kept and every later call becomes a no-op returning the current value,
// so editors can ask a sequence of questions and check Err once at the end.
type Form struct {
	ctx    context.Context
	driver PromptDriver
	env    Env
	err    error
}

// NewForm binds a driver and editor environment to ctx.
func NewForm(ctx context.Context, driver PromptDriver, env Env) *Form {
	return &Form{ctx: ctx, driver: driver, env: env}
}

// Err returns the first error encountered.
func (f *Form) Err() error { return f.err }

// Context returns the context prompts run under.
func (f *Form) Context() context.Context { return f.ctx }

func (f *Form) fail(err error) bool {
	if err != nil && f.err == nil {
		f.err = err
	}
	return f.err != nil
}

// Text asks for a single line, defaulting to current.
func (f *Form) Text(label, current string) string {
	if f.err != nil {
		return current
	}
	out, err := f.driver.Input(f.ctx, InputConfig{Message: label, Default: current})
	if f.fail(err) {
		return current
	}
	return strings.TrimSpace(out)
}

// TextArea asks for multi-line text such as markdown bodies.
func (f *Form) TextArea(label, current string) string {
	if f.err != nil {
		return current
	}
	out, err := f.driver.TextArea(f.ctx, TextAreaConfig{Message: label, Default: current})
	if f.fail(err) {
		return current
	}
	return out
}

// Bool asks a yes/no question.
func (f *Form) Bool(label string, current bool) bool {
	if f.err != nil {
		return current
	}
	out, err := f.driver.Confirm(f.ctx, ConfirmConfig{Message: label, Default: current})
	if f.fail(err) {
		return current
	}
	return out
}

// Int asks for an integer within [min, max].
func (f *Form) Int(label string, current, lo, hi int) int {
	if f.err != nil {
		return current
	}
	validate := func(raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%q is not a whole number", raw)
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
	out, err := f.driver.Input(f.ctx, InputConfig{
		Message:   label,
		Default:   strconv.Itoa(current),
		Validator: validate,
	})
	if f.fail(err) {
		return current
	}
	if f.fail(validate(out)) {
		return current
	}
	n, _ := strconv.Atoi(strings.TrimSpace(out))
	return n
}

// Float asks for a non-negative decimal such as a price.
func (f *Form) Float(label string, current float64) float64 {
	if f.err != nil {
		return current
	}
	validate := func(raw string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", raw)
		}
		if v < 0 {
			return fmt.Errorf("must not be negative")
		}
		return nil
	}
	out, err := f.driver.Input(f.ctx, InputConfig{
		Message:   label,
		Default:   strconv.FormatFloat(current, 'f', -1, 64),
		Validator: validate,
	})
	if f.fail(err) || f.fail(validate(out)) {
		return current
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(out), 64)
	return v
}

// Choice asks the admin to pick one of options. An out of range answer keeps
// current.
func (f *Form) Choice(label string, options []string, current string) string {
	idx := f.Select(label, options, indexOf(options, current))
	if idx < 0 || idx >= len(options) {
		return current
	}
	return options[idx]
}

// Select returns the chosen index, or -1 after an error.
func (f *Form) Select(label string, options []string, defaultIndex int) int {
	if f.err != nil {
		return -1
	}
	idx, err := f.driver.Select(f.ctx, SelectConfig{
		Message:      label,
		Options:      options,
		DefaultIndex: defaultIndex,
	})
	if f.fail(err) {
		return -1
	}
	return idx
}

// MultiChoice asks for any subset of options, preselecting current. Values
// in current that are not offered are kept as extra options so they are
// never dropped silently. Order follows options.
func (f *Form) MultiChoice(label string, options, current []string) []string {
	if f.err != nil {
		return current
	}
	offered := slices.Clone(options)
	for _, value := range current {
		if !slices.Contains(offered, value) {
			offered = append(offered, value)
		}
	}
	defaults := make([]int, 0, len(current))
	for _, value := range current {
		defaults = append(defaults, indexOf(offered, value))
	}

	picked, err := f.driver.MultiSelect(f.ctx, SelectConfig{
		Message:  label,
		Options:  offered,
		Defaults: defaults,
	})
	if f.fail(err) {
		return current
	}
	slices.Sort(picked)
	out := make([]string, 0, len(picked))
	for _, idx := range slices.Compact(picked) {
		if idx >= 0 && idx < len(offered) {
			out = append(out, offered[idx])
		}
	}
	return out
}

// Link asks for a label, target and external flag.
func (f *Form) Link(label string, current section.Link) section.Link {
	current.Label = f.Text(label+" label", current.Label)
	current.Href = f.Text(label+" link (use /#section-id for sections on this page)", current.Href)
	current.External = f.Bool(label+" opens in a new tab?", current.External)
	return current
}

// Image asks for an image reference and its alt text.
func (f *Form) Image(label string, current section.Image) section.Image {
	current.Src = f.Media(label, current.Src)
	current.Alt = f.Text(label+" alt text", current.Alt)
	return current
}

const (
	mediaKeep   = "Keep current"
	mediaPick   = "Choose from library"
	mediaURL    = "Enter a URL"
	mediaRemove = "Remove"
)

// Media edits a media reference. Picking from the library goes through the
// environment's picker; a cancelled pick leaves the value unchanged while an
// empty pick clears it.
func (f *Form) Media(label, current string) string {
	options := []string{mediaKeep}
	if f.env.Media != nil {
		options = append(options, mediaPick)
	}
	options = append(options, mediaURL, mediaRemove)

	switch f.Choice(label, options, mediaKeep) {
	case mediaPick:
		key, ok, err := f.env.Media.Open(f.ctx, media.SitePrefix(f.env.SiteID)).Await(f.ctx)
		if f.fail(err) || !ok {
			return current
		}
		return key
	case mediaURL:
		return f.Text(label+" URL", current)
	case mediaRemove:
		return ""
	default:
		return current
	}
}

// Strings edits a list of plain strings.
func (f *Form) Strings(label string, items []string) []string {
	return EditList(f, label, items, ListItem[string]{
		Describe: func(s string) string { return s },
		New:      func() string { return "" },
		Edit: func(f *Form, s string) string {
			return f.Text(label, s)
		},
	})
}

// Info shows a message without expecting an answer.
func (f *Form) Info(msg string) {
	if f.err != nil {
		return
	}
	f.fail(f.driver.Info(f.ctx, msg))
}

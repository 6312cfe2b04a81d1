package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-sections/pkg/registry"
	"github.com/goliatone/go-sections/pkg/section"
)

// Draft is the slice of the editing session the admin loop drives.
type Draft interface {
	Draft() section.SiteConfig
	Selection() (int, bool)
	Select(i int) error
	Add(t section.Type) (section.Section, error)
	Remove(i int) error
	Move(from, to int) error
	Update(i int, next section.Section) error
	Save(ctx context.Context) error
	Discard() error
	Dirty() bool
}

const (
	adminEdit       = "Edit section"
	adminAppearance = "Appearance"
	adminSelect     = "Select another section"
	adminAdd        = "Add section"
	adminRemove     = "Remove section"
	adminMove       = "Move section"
	adminSave       = "Save"
	adminQuit       = "Quit"
)

// Admin is the interactive page editor: it lists the draft, routes the
// selected section to its editor and saves or discards the draft.
type Admin struct {
	Draft    Draft
	Dispatch *Dispatch
	Driver   PromptDriver
	Registry *registry.Registry
	Env      Env
}

// Run loops until the admin quits or a save commits the draft. Interrupting a single edit cancels only
// that edit; interrupting the main menu quits.
func (a *Admin) Run(ctx context.Context) error {
	if a.Draft == nil || a.Driver == nil {
		return errors.New("editor: admin needs a draft and a driver")
	}
	if a.Dispatch == nil {
		a.Dispatch = NewDispatch(a.Driver, WithLabels(a.labelOf))
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, err := a.menu(ctx)
		if errors.Is(err, ErrAborted) {
			action = adminQuit
		} else if err != nil {
			return err
		}

		switch action {
		case adminQuit:
			done, err := a.quit(ctx)
			if err != nil || done {
				return err
			}
			continue
		case adminSave:
			saved, err := a.save(ctx)
			if err != nil || saved {
				return err
			}
			continue
		default:
			err = a.run(ctx, action)
		}
		if errors.Is(err, ErrAborted) {
			err = a.Driver.Info(ctx, "Cancelled.")
		}
		if err != nil {
			return err
		}
	}
}

func (a *Admin) menu(ctx context.Context) (string, error) {
	cfg := a.Draft.Draft()
	sel, ok := a.Draft.Selection()

	header := fmt.Sprintf("%d sections", len(cfg.Sections))
	options := []string{}
	if ok {
		header = fmt.Sprintf("%s, editing %d: %s", header, sel+1, a.describe(cfg.Sections[sel]))
		options = append(options, adminEdit, adminAppearance)
	}
	if len(cfg.Sections) > 1 || (!ok && len(cfg.Sections) > 0) {
		options = append(options, adminSelect)
	}
	options = append(options, adminAdd)
	if ok {
		options = append(options, adminRemove)
		if len(cfg.Sections) > 1 {
			options = append(options, adminMove)
		}
	}
	if a.Draft.Dirty() {
		header += " (unsaved changes)"
	}
	options = append(options, adminSave, adminQuit)

	idx, err := a.Driver.Select(ctx, SelectConfig{Message: header, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return adminQuit, nil
	}
	return options[idx], nil
}

func (a *Admin) run(ctx context.Context, action string) error {
	cfg := a.Draft.Draft()
	sel, ok := a.Draft.Selection()
	form := NewForm(ctx, a.Driver, a.Env)

	switch action {
	case adminEdit, adminAppearance:
		if !ok {
			return nil
		}
		return a.edit(ctx, sel, cfg.Sections[sel], action == adminAppearance)
	case adminSelect:
		labels := make([]string, len(cfg.Sections))
		for i, s := range cfg.Sections {
			labels[i] = fmt.Sprintf("%d. %s", i+1, a.describe(s))
		}
		idx := form.Select("Select section", labels, max(sel, 0))
		if err := form.Err(); err != nil {
			return err
		}
		return a.Draft.Select(idx)
	case adminAdd:
		types := a.registry().AllowedTypes()
		if len(types) == 0 {
			return a.Driver.Info(ctx, "No section types are enabled.")
		}
		labels := make([]string, len(types))
		for i, t := range types {
			labels[i] = a.labelOf(t)
		}
		idx := form.Select("Section type", labels, 0)
		if err := form.Err(); err != nil || idx < 0 || idx >= len(types) {
			return err
		}
		_, err := a.Draft.Add(types[idx])
		return err
	case adminRemove:
		if !ok {
			return nil
		}
		sure := form.Bool(fmt.Sprintf("Remove %s? Links pointing to it stay as they are.", a.describe(cfg.Sections[sel])), false)
		if err := form.Err(); err != nil || !sure {
			return err
		}
		return a.Draft.Remove(sel)
	case adminMove:
		if !ok {
			return nil
		}
		to := form.Int("Move to position", sel+1, 1, len(cfg.Sections))
		if err := form.Err(); err != nil {
			return err
		}
		return a.Draft.Move(sel, to-1)
	}
	return nil
}

func (a *Admin) edit(ctx context.Context, idx int, current section.Section, appearance bool) error {
	if !section.IsEditable(current) {
		return a.Driver.Info(ctx, fmt.Sprintf("%s is locked.", a.describe(current)))
	}
	var updateErr error
	env := a.Env
	env.OnChange = func(next section.Section) {
		updateErr = a.Draft.Update(idx, next)
	}

	var ed Editor
	if appearance {
		ed = AppearanceEditor(a.Driver)
	} else {
		ed = a.Dispatch.Resolve(current.SectionType())
	}
	if err := ed.Edit(ctx, current, env); err != nil {
		return err
	}
	return updateErr
}

// save reports true once the draft is committed and the session closed.
func (a *Admin) save(ctx context.Context) (bool, error) {
	if err := a.Draft.Save(ctx); err != nil {
		return false, a.Driver.Info(ctx, fmt.Sprintf("Save failed, your changes are kept: %v", err))
	}
	return true, a.Driver.Info(ctx, "Saved.")
}

// quit asks for confirmation when the draft has unsaved changes.
func (a *Admin) quit(ctx context.Context) (bool, error) {
	if a.Draft.Dirty() {
		sure, err := a.Driver.Confirm(ctx, ConfirmConfig{Message: "Discard unsaved changes?", Default: false})
		if errors.Is(err, ErrAborted) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if !sure {
			return false, nil
		}
	}
	return true, a.Draft.Discard()
}

func (a *Admin) registry() *registry.Registry {
	if a.Registry != nil {
		return a.Registry
	}
	return registry.Default()
}

func (a *Admin) labelOf(t section.Type) string {
	return a.registry().LabelOf(t)
}

func (a *Admin) describe(s section.Section) string {
	label := a.labelOf(s.SectionType())
	if !section.IsVisible(s) {
		label += " (hidden)"
	}
	return fmt.Sprintf("%s [%s]", label, section.ID(s))
}

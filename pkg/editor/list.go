package editor

import (
	"fmt"
	"slices"
)

// Append returns a copy of items with v added at the end.
func Append[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, v)
}

// Replace returns a copy of items with index i set to v. An out of range
// index returns an unchanged copy.
func Replace[T any](items []T, i int, v T) []T {
	out := slices.Clone(items)
	if i >= 0 && i < len(out) {
		out[i] = v
	}
	return out
}

// RemoveAt returns a copy of items without index i.
func RemoveAt[T any](items []T, i int) []T {
	out := slices.Clone(items)
	if i < 0 || i >= len(out) {
		return out
	}
	return slices.Delete(out, i, i+1)
}

// Swap returns a copy of items with i and j exchanged.
func Swap[T any](items []T, i, j int) []T {
	out := slices.Clone(items)
	if i < 0 || j < 0 || i >= len(out) || j >= len(out) {
		return out
	}
	out[i], out[j] = out[j], out[i]
	return out
}

// MoveUp swaps i with its predecessor.
func MoveUp[T any](items []T, i int) []T {
	if i <= 0 {
		return slices.Clone(items)
	}
	return Swap(items, i, i-1)
}

// MoveDown swaps i with its successor.
func MoveDown[T any](items []T, i int) []T {
	if i >= len(items)-1 {
		return slices.Clone(items)
	}
	return Swap(items, i, i+1)
}

// ListItem describes how EditList presents and edits one element type.
type ListItem[T any] struct {
	Describe func(T) string
	New      func() T
	Edit     func(*Form, T) T
}

// List actions in menu order.
const (
	ActionAdd      = "Add"
	ActionEdit     = "Edit"
	ActionRemove   = "Remove"
	ActionMoveUp   = "Move up"
	ActionMoveDown = "Move down"
	ActionDone     = "Done"
)

// EditList runs the add / edit / remove / move / done loop over items and
// returns the resulting list. The input slice is never modified.
func EditList[T any](f *Form, label string, items []T, item ListItem[T]) []T {
	current := slices.Clone(items)
	if current == nil {
		current = []T{}
	}
	for f.Err() == nil {
		actions := []string{ActionAdd}
		if len(current) > 0 {
			actions = append(actions, ActionEdit, ActionRemove)
		}
		if len(current) > 1 {
			actions = append(actions, ActionMoveUp, ActionMoveDown)
		}
		actions = append(actions, ActionDone)

		idx := f.Select(fmt.Sprintf("%s (%d)", label, len(current)), actions, len(actions)-1)
		if idx < 0 || idx >= len(actions) {
			return current
		}
		switch actions[idx] {
		case ActionAdd:
			next := item.Edit(f, item.New())
			if f.Err() == nil {
				current = Append(current, next)
			}
		case ActionEdit:
			if i := pickItem(f, label, current, item.Describe); i >= 0 {
				next := item.Edit(f, current[i])
				if f.Err() == nil {
					current = Replace(current, i, next)
				}
			}
		case ActionRemove:
			if i := pickItem(f, label, current, item.Describe); i >= 0 {
				current = RemoveAt(current, i)
			}
		case ActionMoveUp:
			if i := pickItem(f, label, current, item.Describe); i >= 0 {
				current = MoveUp(current, i)
			}
		case ActionMoveDown:
			if i := pickItem(f, label, current, item.Describe); i >= 0 {
				current = MoveDown(current, i)
			}
		case ActionDone:
			return current
		}
	}
	return current
}

func pickItem[T any](f *Form, label string, items []T, describe func(T) string) int {
	options := make([]string, len(items))
	for i, it := range items {
		text := ""
		if describe != nil {
			text = describe(it)
		}
		if text == "" {
			text = "(untitled)"
		}
		options[i] = fmt.Sprintf("%d. %s", i+1, text)
	}
	idx := f.Select("Which "+label+"?", options, 0)
	if idx < 0 || idx >= len(items) {
		return -1
	}
	return idx
}

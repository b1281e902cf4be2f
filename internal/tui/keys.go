package tui

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the bindings of every layout action. Ctrl is the primary
// modifier.
type KeyMap struct {
	Split       key.Binding
	FocusLeft   key.Binding
	FocusRight  key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding
	CloseTab    key.Binding
	CloseOthers key.Binding
	ClosePane   key.Binding
	Picker      key.Binding
	NewNote     key.Binding
	Cancel      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Split: key.NewBinding(
			key.WithKeys(`ctrl+\`),
			key.WithHelp(`ctrl+\`, "split"),
		),
		FocusLeft: key.NewBinding(
			key.WithKeys("alt+ctrl+left"),
			key.WithHelp("ctrl+alt+←", "focus left"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("alt+ctrl+right"),
			key.WithHelp("ctrl+alt+→", "focus right"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+pgdown", "alt+]"),
			key.WithHelp("alt+]", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+pgup", "alt+["),
			key.WithHelp("alt+[", "prev tab"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("alt+shift+left"),
			key.WithHelp("alt+shift+←", "move tab left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("alt+shift+right"),
			key.WithHelp("alt+shift+→", "move tab right"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close tab"),
		),
		CloseOthers: key.NewBinding(
			key.WithKeys("alt+w"),
			key.WithHelp("alt+w", "close others"),
		),
		ClosePane: key.NewBinding(
			key.WithKeys("alt+x"),
			key.WithHelp("alt+x", "close pane"),
		),
		Picker: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open"),
		),
		NewNote: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new note"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "quit"),
		),
	}
}

// actions maps the names used in the config file to bindings.
func (k *KeyMap) actions() map[string]*key.Binding {
	return map[string]*key.Binding{
		"split":        &k.Split,
		"focus_left":   &k.FocusLeft,
		"focus_right":  &k.FocusRight,
		"next_tab":     &k.NextTab,
		"prev_tab":     &k.PrevTab,
		"move_left":    &k.MoveLeft,
		"move_right":   &k.MoveRight,
		"close_tab":    &k.CloseTab,
		"close_others": &k.CloseOthers,
		"close_pane":   &k.ClosePane,
		"picker":       &k.Picker,
		"new_note":     &k.NewNote,
		"cancel":       &k.Cancel,
		"quit":         &k.Quit,
	}
}

// Apply replaces the keys of the named actions. Unknown actions and empty key
// lists are skipped and reported.
func (k *KeyMap) Apply(overrides map[string][]string) []error {
	var errs []error
	bindings := k.actions()
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		keys := overrides[name]
		b, ok := bindings[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown key action %q", name))
			continue
		}
		if len(keys) == 0 {
			errs = append(errs, fmt.Errorf("key action %q has no keys", name))
			continue
		}
		b.SetKeys(keys...)
		b.SetHelp(keys[0], b.Help().Desc)
	}
	return errs
}

// ShortHelp lists the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Split, k.FocusLeft, k.FocusRight, k.CloseTab, k.Picker, k.NewNote}
}

package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/textcomplete/internal/dropdown"
)

// KeyMode selects extra dropdown bindings layered over the defaults.
type KeyMode string

const (
	// KeyModeDefault keeps the built-in bindings only.
	KeyModeDefault KeyMode = "default"
	// KeyModeVim adds ctrl+j/ctrl+k and ctrl+d/ctrl+u.
	KeyModeVim KeyMode = "vim"
	// KeyModeEmacs adds ctrl+v/alt+v paging and ctrl+g to close.
	KeyModeEmacs KeyMode = "emacs"
)

// ValidKeyModes lists all valid key modes for validation.
var ValidKeyModes = []KeyMode{KeyModeDefault, KeyModeVim, KeyModeEmacs}

// IsValidKeyMode checks if a key mode string is valid. Empty selects the default.
func IsValidKeyMode(mode string) bool {
	if mode == "" {
		return true
	}
	for _, m := range ValidKeyModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// VimKeyBindings maps keys to dropdown commands in vim mode.
var VimKeyBindings = map[string]dropdown.Command{
	"ctrl+j": dropdown.CommandDown,
	"ctrl+k": dropdown.CommandUp,
	"ctrl+d": dropdown.CommandPageDown,
	"ctrl+u": dropdown.CommandPageUp,
}

// EmacsKeyBindings maps keys to dropdown commands in emacs mode.
var EmacsKeyBindings = map[string]dropdown.Command{
	"ctrl+v": dropdown.CommandPageDown,
	"alt+v":  dropdown.CommandPageUp,
	"ctrl+g": dropdown.CommandEscape,
}

// commandByName maps config action names to commands. "none" hands the key
// back to the input, which disables a default binding.
var commandByName = map[string]dropdown.Command{
	"none":     dropdown.CommandNone,
	"up":       dropdown.CommandUp,
	"down":     dropdown.CommandDown,
	"enter":    dropdown.CommandEnter,
	"pageup":   dropdown.CommandPageUp,
	"pagedown": dropdown.CommandPageDown,
	"escape":   dropdown.CommandEscape,
}

// keyBindings classifies keys by their string form, e.g. "ctrl+j".
type keyBindings map[string]dropdown.Command

func (b keyBindings) Classify(msg tea.KeyPressMsg) (dropdown.Command, bool) {
	cmd, ok := b[msg.String()]
	return cmd, ok
}

// KeyClassifier builds the dropdown key override for mode and the custom
// keys of the config. It returns nil when neither adds a binding.
func KeyClassifier(mode string, keys map[string]string) (dropdown.KeyCommandClassifier, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if !IsValidKeyMode(mode) {
		return nil, fmt.Errorf("unknown keymap %q (valid: default, vim, emacs)", mode)
	}

	b := keyBindings{}
	switch KeyMode(mode) {
	case KeyModeVim:
		for k, c := range VimKeyBindings {
			b[k] = c
		}
	case KeyModeEmacs:
		for k, c := range EmacsKeyBindings {
			b[k] = c
		}
	}

	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		action := strings.ToLower(strings.TrimSpace(keys[k]))
		cmd, ok := commandByName[action]
		if !ok {
			return nil, fmt.Errorf("key %q: unknown action %q", k, keys[k])
		}
		b[strings.ToLower(strings.TrimSpace(k))] = cmd
	}

	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

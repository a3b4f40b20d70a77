package dropdown

import (
	tea "charm.land/bubbletea/v2"
)

// Command is the outcome of classifying a key press while the dropdown is shown.
type Command int

const (
	// CommandNone leaves the key to the host input.
	CommandNone Command = iota
	CommandUp
	CommandDown
	CommandEnter
	CommandPageUp
	CommandPageDown
	CommandEscape
)

func (c Command) String() string {
	switch c {
	case CommandUp:
		return "up"
	case CommandDown:
		return "down"
	case CommandEnter:
		return "enter"
	case CommandPageUp:
		return "pageup"
	case CommandPageDown:
		return "pagedown"
	case CommandEscape:
		return "escape"
	}
	return "none"
}

// KeyCommandClassifier maps a key press to a command. ok is false when the
// classifier has no opinion and the next classifier should decide.
type KeyCommandClassifier interface {
	Classify(msg tea.KeyPressMsg) (cmd Command, ok bool)
}

// ClassifierFunc adapts a function to KeyCommandClassifier.
type ClassifierFunc func(msg tea.KeyPressMsg) (Command, bool)

func (f ClassifierFunc) Classify(msg tea.KeyPressMsg) (Command, bool) { return f(msg) }

// DefaultClassifier holds the built-in bindings.
type DefaultClassifier struct {
	// CompleteOnSpace makes a bare space commit the highlighted item.
	CompleteOnSpace bool
}

const enterModifiers = tea.ModCtrl | tea.ModAlt | tea.ModMeta | tea.ModShift

func (d DefaultClassifier) Classify(msg tea.KeyPressMsg) (Command, bool) {
	k := msg.Key()
	ctrl := k.Mod&tea.ModCtrl != 0

	switch {
	case k.Code == tea.KeyUp, ctrl && k.Code == 'p':
		return CommandUp, true
	case k.Code == tea.KeyDown, ctrl && k.Code == 'n':
		return CommandDown, true
	case d.isEnter(k):
		return CommandEnter, true
	case k.Code == tea.KeyPgUp:
		return CommandPageUp, true
	case k.Code == tea.KeyPgDown:
		return CommandPageDown, true
	case k.Code == tea.KeyEscape:
		return CommandEscape, true
	}
	return CommandNone, false
}

func (d DefaultClassifier) isEnter(k tea.Key) bool {
	if k.Mod&enterModifiers != 0 {
		return false
	}
	switch k.Code {
	case tea.KeyEnter, tea.KeyTab:
		return true
	case tea.KeySpace:
		return d.CompleteOnSpace
	}
	return false
}

// chainClassifier consults override before the defaults.
type chainClassifier struct {
	override KeyCommandClassifier
	fallback KeyCommandClassifier
}

func (c chainClassifier) Classify(msg tea.KeyPressMsg) (Command, bool) {
	if c.override != nil {
		if cmd, ok := c.override.Classify(msg); ok {
			return cmd, true
		}
	}
	return c.fallback.Classify(msg)
}

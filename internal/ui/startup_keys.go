package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ParseStartupKeys turns --press tokens into key presses. Tokens mix literal
// text with <...> keys, e.g. "@al<Down><Tab>". A leading backslash makes the
// whole token literal.
func ParseStartupKeys(keys []string) []tea.KeyPressMsg {
	var out []tea.KeyPressMsg
	for _, raw := range keys {
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, `\`) {
			out = append(out, literalKeys(strings.TrimPrefix(raw, `\`))...)
			continue
		}
		for _, segment := range parseTokenSegments(raw) {
			if !segment.isKey {
				out = append(out, literalKeys(segment.text)...)
				continue
			}
			if msgs, ok := keyMsgsFromToken(segment.text); ok {
				out = append(out, msgs...)
				continue
			}
			out = append(out, literalKeys(segment.text)...)
		}
	}
	return out
}

func literalKeys(text string) []tea.KeyPressMsg {
	out := make([]tea.KeyPressMsg, 0, len(text))
	for _, r := range text {
		out = append(out, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return out
}

// tokenSegment is a run of literal text or one <...> key.
type tokenSegment struct {
	text  string
	isKey bool
}

// parseTokenSegments splits a token into keys and literal text.
// Example: "@al<Down>x" -> ["@al", "<Down>", "x"].
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token

	for len(remaining) > 0 {
		startIdx := strings.Index(remaining, "<")
		if startIdx == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if startIdx > 0 {
			segments = append(segments, tokenSegment{text: remaining[:startIdx]})
		}

		endIdx := strings.Index(remaining[startIdx:], ">")
		if endIdx == -1 {
			segments = append(segments, tokenSegment{text: remaining[startIdx:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[startIdx : startIdx+endIdx+1], isKey: true})
		remaining = remaining[startIdx+endIdx+1:]
	}

	return segments
}

// keyMsgsFromToken parses a <...> token such as "<Esc>", "<CR>", "<S-Tab>",
// "<PageDown>" or "<C-n>".
func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return nil, false
	}
	lower := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">"))
	switch lower {
	case "esc", "c-[", "escape":
		return []tea.KeyPressMsg{{Code: tea.KeyEscape}}, true
	case "cr", "enter", "return":
		return []tea.KeyPressMsg{{Code: tea.KeyEnter}}, true
	case "tab":
		return []tea.KeyPressMsg{{Code: tea.KeyTab}}, true
	case "s-tab":
		return []tea.KeyPressMsg{{Code: tea.KeyTab, Mod: tea.ModShift}}, true
	case "space":
		return []tea.KeyPressMsg{{Code: tea.KeySpace, Text: " "}}, true
	case "bs", "backspace":
		return []tea.KeyPressMsg{{Code: tea.KeyBackspace}}, true
	case "left":
		return []tea.KeyPressMsg{{Code: tea.KeyLeft}}, true
	case "right":
		return []tea.KeyPressMsg{{Code: tea.KeyRight}}, true
	case "up":
		return []tea.KeyPressMsg{{Code: tea.KeyUp}}, true
	case "down":
		return []tea.KeyPressMsg{{Code: tea.KeyDown}}, true
	case "pageup", "pgup":
		return []tea.KeyPressMsg{{Code: tea.KeyPgUp}}, true
	case "pagedown", "pgdn":
		return []tea.KeyPressMsg{{Code: tea.KeyPgDown}}, true
	case "home":
		return []tea.KeyPressMsg{{Code: tea.KeyHome}}, true
	case "end":
		return []tea.KeyPressMsg{{Code: tea.KeyEnd}}, true
	}
	if rest, ok := strings.CutPrefix(lower, "c-"); ok && len(rest) == 1 {
		return []tea.KeyPressMsg{{Code: rune(rest[0]), Mod: tea.ModCtrl}}, true
	}
	return nil, false
}

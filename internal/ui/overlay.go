package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Composite draws fg over bg with its top-left corner at cell (x, y). Both may
// carry ANSI styling; cells of bg outside fg are kept. bg grows when fg reaches
// past its last line.
func Composite(bg, fg string, x, y int) string {
	if fg == "" {
		return bg
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	for len(bgLines) < y+len(fgLines) {
		bgLines = append(bgLines, "")
	}

	for i, fgLine := range fgLines {
		row := y + i
		line := bgLines[row]
		fgWidth := ansi.StringWidth(fgLine)

		left := ansi.Truncate(line, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ""
		if ansi.StringWidth(line) > x+fgWidth {
			right = ansi.TruncateLeft(line, x+fgWidth, "")
		}
		bgLines[row] = left + ansi.ResetStyle + fgLine + ansi.ResetStyle + right
	}
	return strings.Join(bgLines, "\n")
}

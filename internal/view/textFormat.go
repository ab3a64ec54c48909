package view

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"getsrc/internal/ext"
)

// TruncateTextToWidth keeps the end of every line, marking cut lines with a leading ellipsis,
// and pads lines to width. Width is in terminal columns.
func TruncateTextToWidth(width int, out string) string {
	width = ext.Max(width, 0)
	return fitLines(width, out, func(line string) string {
		if width > 3 {
			return "..." + lastColumns(line, width-3)
		}
		return lastColumns(line, width)
	})
}

// TrimTextToWidth cuts off the end of every line longer than width and pads the rest.
func TrimTextToWidth(width int, out string) string {
	width = ext.Max(width, 0)
	return fitLines(width, out, func(line string) string {
		return runewidth.Truncate(line, width, "")
	})
}

func fitLines(width int, out string, cut func(string) string) string {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if runewidth.StringWidth(line) > width {
			line = cut(line)
		}
		lines[i] = runewidth.FillRight(line, width)
	}
	return strings.Join(lines, "\n")
}

// lastColumns returns the longest suffix of line that fits in columns.
func lastColumns(line string, columns int) string {
	runes := []rune(line)
	start, used := len(runes), 0
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > columns {
			break
		}
		used += w
		start--
	}
	return string(runes[start:])
}

package view

import (
	"os"

	"golang.org/x/term"
)

const DefaultWidth = 80

// TerminalWidth returns the width of file when it is a terminal, DefaultWidth otherwise.
func TerminalWidth(file *os.File) int {
	if !IsTerminal(file) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

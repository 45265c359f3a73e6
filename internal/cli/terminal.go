package cli

import (
	"os"

	"golang.org/x/term"

	"github.com/vijay-prabhu/legitscore/internal/output"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
)

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal bool
	UseColor   bool
}

// NewTerminal creates a Terminal for f
func NewTerminal(f *os.File) *Terminal {
	isTerminal := term.IsTerminal(int(f.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal, // Only use color in terminal
	}
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// Mark renders a green ✓ or a red ✗
func (t *Terminal) Mark(correct bool) string {
	if correct {
		return t.Color(ColorGreen, output.PlainMark(true))
	}
	return t.Color(ColorRed, output.PlainMark(false))
}

package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// IsTerminal reports whether f is attached to a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool { return IsTerminal(os.Stdout) }

// CanPrompt reports whether a question can be asked and answered
// interactively.
func CanPrompt() bool { return IsTerminal(os.Stdin) && IsTerminal(os.Stdout) }

// Confirm writes prompt to w and reads one line from r. Only y or yes
// (any case) confirm; EOF and anything else decline.
func Confirm(r io.Reader, w io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(w, "%s (y/n): ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		_, _ = fmt.Fprintln(w)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// InitColor configures color output based on flags and terminal detection.
func InitColor(noColor bool) {
	if noColor || !IsTTY() {
		color.NoColor = true
	}
}

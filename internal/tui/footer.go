package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ClearActiveCmdMsg clears the active command highlight in the footer.
type ClearActiveCmdMsg struct{}

// ShortcutEntry pairs a trigger key with the display label for footer highlighting.
type ShortcutEntry struct {
	Key      string // trigger key to match against activeCmd (empty = no highlight)
	Label    string
	Disabled bool // rendered struck through; the action is currently unavailable
}

// HighlightCmd returns a 500ms tick command to clear the active command highlight.
// Callers set activeCmd on the model directly before returning:
//
//	m.activeCmd = "key"
//	return m, tui.HighlightCmd()
func HighlightCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return ClearActiveCmdMsg{}
	})
}

// RenderFooterBar renders a footer bar with shortcut labels.
// The shortcut matching activeCmd is rendered with StyleHighlight; others are dim.
func RenderFooterBar(shortcuts []ShortcutEntry, activeCmd string) string {
	dimStyle := lipgloss.NewStyle().Foreground(ColorGray)
	offStyle := dimStyle.Strikethrough(true).Faint(true)

	parts := make([]string, len(shortcuts))
	for i, sc := range shortcuts {
		switch {
		case activeCmd != "" && sc.Key == activeCmd:
			parts[i] = StyleHighlight.Render("[ " + sc.Label + " ]")
		case sc.Disabled:
			parts[i] = offStyle.Render(sc.Label)
		default:
			parts[i] = dimStyle.Render(sc.Label)
		}
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, dimStyle.Render(" • ")))
}

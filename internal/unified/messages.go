package unified

import (
	"github.com/blackwell-systems/docqa/internal/document"
	"github.com/blackwell-systems/docqa/internal/workflow"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateMsg is emitted when a view wants to navigate to another view
type NavigateMsg struct {
	Target workflow.Screen
}

// QuitAppMsg is emitted when the entire application should quit
type QuitAppMsg struct{}

// candidateMsg carries an inspected file from the upload screen. Seq
// orders inspections so a slow one cannot replace a later choice.
type candidateMsg struct {
	Seq       int
	Input     string
	Candidate document.Candidate
	Err       error
	Dropped   bool
}

func navigate(to workflow.Screen) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Target: to} }
}

// inspect reads path off the UI goroutine.
func inspect(seq int, path string, dropped bool) tea.Cmd {
	return func() tea.Msg {
		c, err := document.Inspect(path)
		return candidateMsg{Seq: seq, Input: path, Candidate: c, Err: err, Dropped: dropped}
	}
}

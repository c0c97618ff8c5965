package unified

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/docqa/internal/tui"
	"github.com/blackwell-systems/docqa/internal/workflow"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

// askChromeLines is the height of everything on the ask screen except the
// answer viewport.
const askChromeLines = 16

// AskModel is the question screen. The input is blurred while a question is
// in flight; the answer scrolls in a viewport.
type AskModel struct {
	sess      *workflow.Session
	keys      tui.Keys
	input     textinput.Model
	answer    viewport.Model
	width     int
	activeCmd string
}

// NewAskModel creates the ask screen.
func NewAskModel(sess *workflow.Session, keys tui.Keys) AskModel {
	ti := textinput.New()
	ti.Placeholder = "What would you like to know about this document?"
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Width = 60

	return AskModel{
		sess:   sess,
		keys:   keys,
		input:  ti,
		answer: viewport.New(60, 10),
	}
}

// Focus readies the question input unless a question is in flight.
func (m *AskModel) Focus() tea.Cmd {
	if m.sess.Ask.Phase() == workflow.PhaseInFlight {
		return nil
	}
	return m.input.Focus()
}

func (m *AskModel) Blur() { m.input.Blur() }

// Refresh re-renders the answer after it changed.
func (m *AskModel) Refresh() {
	m.answer.SetContent(renderAnswer(m.sess.Ask, m.answer.Width))
	m.answer.GotoTop()
}

// Update handles messages for the ask screen
func (m AskModel) Update(msg tea.Msg) (AskModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := contentWidth(msg.Width) - 4
		m.input.Width = w - len(m.input.Prompt) - 1
		m.answer.Width = w
		m.answer.Height = msg.Height - askChromeLines
		if m.answer.Height < 5 {
			m.answer.Height = 5
		}
		m.Refresh()
		return m, nil

	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Submit):
			cmd := m.sess.Ask.Submit(m.input.Value())
			if cmd == nil {
				return m, nil
			}
			m.input.Blur()
			m.Refresh()
			m.activeCmd = "ask"
			return m, tea.Batch(cmd, tui.HighlightCmd())

		case isScrollKey(msg):
			var cmd tea.Cmd
			m.answer, cmd = m.answer.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// isScrollKey reports keys that scroll the answer instead of editing the question.
func isScrollKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		return true
	}
	return false
}

// View renders the ask screen. spin is the current spinner frame.
func (m AskModel) View(spin string) string {
	ctl := m.sess.Ask

	var b strings.Builder
	b.WriteString(tui.StyleHelp.Render("← esc back"))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleTitle.Render("Ask Questions"))
	b.WriteString("\n")
	b.WriteString(tui.StyleHelp.Render("Get answers from your uploaded documents"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")
	switch {
	case ctl.Phase() == workflow.PhaseInFlight:
		b.WriteString(spin + " Thinking...")
	case ctl.CanSubmit(m.input.Value()):
		b.WriteString(tui.StyleHighlight.Render("🔍 Ask"))
	default:
		b.WriteString(tui.StyleHelp.Faint(true).Render("🔍 Ask"))
	}
	b.WriteString("\n\n")

	if _, ok := ctl.Result(); ok {
		b.WriteString(m.answer.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.RenderFooterBar([]tui.ShortcutEntry{
		{Key: "ask", Label: "enter ask", Disabled: !ctl.CanSubmit(m.input.Value())},
		{Label: "↑/↓ scroll"},
		{Label: "ctrl+t theme"},
		{Label: "esc back"},
	}, m.activeCmd))
	return b.String()
}

// renderAnswer lays out the current answer and its sources for width columns.
func renderAnswer(ctl *workflow.AskController, width int) string {
	res, ok := ctl.Result()
	if !ok {
		return ""
	}
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(tui.StyleTitle.Render("💡 Answer"))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleNormal.Render(wordwrap.String(res.Answer, width-2)))
	b.WriteString("\n")

	if len(res.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(tui.StyleHeader.Render("📚 Sources from Document"))
		b.WriteString("\n")
		for _, src := range res.Sources {
			b.WriteString("\n")
			b.WriteString(tui.StyleSourceMeta.Render(
				fmt.Sprintf("📄 Page %d • Chunk #%d", src.DisplayPage(), src.ChunkID)))
			b.WriteString("\n")
			b.WriteString(tui.StyleHelp.Render(wordwrap.String(src.Text, width-2)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

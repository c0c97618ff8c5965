package unified

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/docqa/internal/tui"
	"github.com/blackwell-systems/docqa/internal/workflow"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// UploadModel is the upload screen. A path typed into the input and
// confirmed with enter is an explicit pick; a bracketed paste (how terminals
// deliver a file dragged onto the window) is a drop.
type UploadModel struct {
	sess      *workflow.Session
	keys      tui.Keys
	input     textinput.Model
	width     int
	activeCmd string
	// inspectSeq numbers the most recent pick or drop.
	inspectSeq int
}

// NewUploadModel creates the upload screen.
func NewUploadModel(sess *workflow.Session, keys tui.Keys) UploadModel {
	ti := textinput.New()
	ti.Placeholder = "path/to/document.pdf"
	ti.Prompt = "File: "
	ti.CharLimit = 4096
	ti.Width = 50

	return UploadModel{sess: sess, keys: keys, input: ti}
}

// Focus readies the path input when the screen is entered.
func (m *UploadModel) Focus() tea.Cmd {
	return m.input.Focus()
}

func (m *UploadModel) Blur() { m.input.Blur() }

// Update handles messages for the upload screen. It returns the command of
// any request it started.
func (m UploadModel) Update(msg tea.Msg) (UploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = contentWidth(msg.Width) - len(m.input.Prompt) - 2
		return m, nil

	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.KeyMsg:
		// A drop never reaches the input.
		if msg.Paste {
			m.inspectSeq++
			return m, inspect(m.inspectSeq, string(msg.Runes), true)
		}

		switch {
		case key.Matches(msg, m.keys.Submit):
			path := strings.TrimSpace(m.input.Value())
			if path != "" {
				m.input.SetValue("")
				m.inspectSeq++
				return m, inspect(m.inspectSeq, path, false)
			}
			return m.submit()

		case key.Matches(msg, m.keys.Upload):
			return m.submit()

		case key.Matches(msg, m.keys.Ask):
			if out, ok := m.sess.Upload.Outcome(); ok && out.OK() {
				return m, navigate(workflow.ScreenAsk)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// current reports whether msg answers the latest pick or drop.
func (m UploadModel) current(msg candidateMsg) bool {
	return msg.Seq == m.inspectSeq
}

func (m UploadModel) submit() (UploadModel, tea.Cmd) {
	cmd := m.sess.Upload.Submit()
	if cmd == nil {
		return m, nil
	}
	m.activeCmd = "upload"
	return m, tea.Batch(cmd, tui.HighlightCmd())
}

// View renders the upload screen. spin is the current spinner frame.
func (m UploadModel) View(spin string) string {
	ctl := m.sess.Upload
	inner := contentWidth(m.width) - 4

	var b strings.Builder
	b.WriteString(tui.StyleHelp.Render("← esc back"))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleTitle.Render("Upload PDF"))
	b.WriteString("\n")
	b.WriteString(tui.StyleHelp.Render("Add study material to the knowledge base"))
	b.WriteString("\n\n")

	// Drop zone
	var zone strings.Builder
	if sel, ok := ctl.Selected(); ok {
		zone.WriteString(tui.StyleHeader.Render("📄 " + xansi.Truncate(sel.Name, inner, "…")))
		zone.WriteString("\n")
		zone.WriteString(tui.StyleHelp.Render(fmt.Sprintf("File selected: %.2f MB (%s)",
			float64(sel.Size)/1024/1024, humanize.Bytes(uint64(sel.Size)))))
		if sel.Pages > 0 {
			zone.WriteString(tui.StyleHelp.Render(fmt.Sprintf(" • %d pages", sel.Pages)))
		}
		if sel.Title != "" {
			zone.WriteString("\n")
			zone.WriteString(tui.StyleHelp.Render(xansi.Truncate(sel.Title, inner, "…")))
		}
	} else {
		zone.WriteString(tui.StyleHeader.Render("📄 Upload Your PDF"))
		zone.WriteString("\n")
		zone.WriteString(tui.StyleHelp.Render("Drag a file onto this window or type its path"))
	}
	zone.WriteString("\n\n")
	zone.WriteString(m.input.View())
	b.WriteString(tui.StyleCard.BorderForeground(tui.ColorPurple).Render(zone.String()))
	b.WriteString("\n\n")

	if ctl.Phase() == workflow.PhaseInFlight {
		b.WriteString(spin + " Processing...")
	} else {
		btn := "🚀 Upload & Process"
		if ctl.CanSubmit() {
			b.WriteString(tui.StyleHighlight.Render(btn))
		} else {
			b.WriteString(tui.StyleHelp.Faint(true).Render(btn))
		}
	}
	b.WriteString("\n")

	if out, ok := ctl.Outcome(); ok {
		b.WriteString("\n")
		if out.OK() {
			b.WriteString(tui.StyleSuccess.Render(out.Text()))
			b.WriteString("\n\n")
			panel := tui.StyleHeader.Render("✅ PDF Processed Successfully!") + "\n" +
				tui.StyleHelp.Render("Your document is ready for questions.") + "\n" +
				tui.StyleHighlight.Render("ctrl+a") + " 💬 Start Asking Questions"
			b.WriteString(tui.StyleCard.BorderForeground(tui.ColorGreen).Render(panel))
		} else {
			b.WriteString(tui.StyleError.Render("✗ " + out.Text()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.RenderFooterBar([]tui.ShortcutEntry{
		{Label: "enter pick/upload"},
		{Key: "upload", Label: "ctrl+u upload", Disabled: !ctl.CanSubmit()},
		{Label: "ctrl+t theme"},
		{Label: "esc back"},
	}, m.activeCmd))
	return b.String()
}

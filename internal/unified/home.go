package unified

import (
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/docqa/internal/backend"
	"github.com/blackwell-systems/docqa/internal/tui"
	"github.com/blackwell-systems/docqa/internal/workflow"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// menuItem is one entry of the home menu.
type menuItem struct {
	target workflow.Screen // empty for quit
	label  string
	desc   string
	icon   string
}

func (i menuItem) FilterValue() string { return i.label }

var homeMenu = []list.Item{
	menuItem{target: workflow.ScreenUpload, label: "Upload PDF", desc: "Add a document to the knowledge base", icon: "📚"},
	menuItem{target: workflow.ScreenAsk, label: "Ask Questions", desc: "Get answers from your documents", icon: "💬"},
	menuItem{label: "Quit", desc: "Exit docqa", icon: "  "},
}

type homeKeys struct {
	quit       key.Binding
	selectItem key.Binding
	upload     key.Binding
	ask        key.Binding
}

var homeKeyMap = homeKeys{
	quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	selectItem: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	upload: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "upload"),
	),
	ask: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "ask"),
	),
}

// menuDelegate renders menu items on a single line.
type menuDelegate struct{}

func (menuDelegate) Height() int                             { return 1 }
func (menuDelegate) Spacing() int                            { return 0 }
func (menuDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (menuDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(menuItem)
	if !ok {
		return
	}
	display := fmt.Sprintf("%s %-16s %s", it.icon, it.label, tui.StyleHelp.Render(it.desc))
	if index == m.Index() {
		_, _ = fmt.Fprint(w, tui.StyleHighlight.Render("› ")+display)
		return
	}
	_, _ = fmt.Fprint(w, "  "+tui.StyleNormal.Render(display))
}

// HomeModel is the landing screen: book status banners plus the feature menu.
type HomeModel struct {
	sess  *workflow.Session
	list  list.Model
	width int
}

// NewHomeModel creates the home screen.
func NewHomeModel(sess *workflow.Session) HomeModel {
	l := list.New(homeMenu, menuDelegate{}, 0, len(homeMenu))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	// esc never quits from home
	l.KeyMap.Quit.SetEnabled(false)
	return HomeModel{sess: sess, list: l}
}

// Update handles messages for the home screen
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetSize(contentWidth(msg.Width), len(homeMenu))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, homeKeyMap.quit):
			return m, func() tea.Msg { return QuitAppMsg{} }
		case key.Matches(msg, homeKeyMap.upload):
			return m, navigate(workflow.ScreenUpload)
		case key.Matches(msg, homeKeyMap.ask):
			return m, navigate(workflow.ScreenAsk)
		case key.Matches(msg, homeKeyMap.selectItem):
			it, ok := m.list.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			if it.target == "" {
				return m, func() tea.Msg { return QuitAppMsg{} }
			}
			return m, navigate(it.target)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the home screen
func (m HomeModel) View() string {
	var b strings.Builder
	b.WriteString(tui.StyleTitle.Render("docqa"))
	b.WriteString("\n")
	b.WriteString(tui.StyleHelp.Render("Ask questions about your PDF documents"))
	b.WriteString("\n\n")

	if st, ok := m.sess.Status.Snapshot(); ok {
		if banner := renderBookBanner(st); banner != "" {
			b.WriteString(banner)
			b.WriteString("\n\n")
		}
	}

	b.WriteString(m.list.View())
	b.WriteString("\n\n")
	b.WriteString(tui.RenderFooterBar([]tui.ShortcutEntry{
		{Label: "enter select"},
		{Label: "u upload"},
		{Label: "a ask"},
		{Label: "ctrl+t theme"},
		{Label: "q quit"},
	}, ""))
	return b.String()
}

// renderBookBanner describes what the backend has loaded. It is empty when
// documents exist but no default book is configured.
func renderBookBanner(st backend.BookStatus) string {
	switch {
	case st.HasDefaultBook:
		name := st.DefaultBookName
		if name == "" {
			name = "default book"
		}
		body := tui.StyleHeader.Foreground(tui.ColorBrand).Render("📖 Default Book Loaded") + "\n" +
			tui.StyleNormal.Render(name) + "\n" +
			tui.StyleHelp.Render(fmt.Sprintf("%d chunks available", st.TotalChunks)) + "\n" +
			tui.StyleHelp.Render("Press a to Start Asking Questions, or upload more PDFs.")
		return tui.StyleCard.BorderForeground(tui.ColorBrand).Render(body)

	case !st.DocumentsLoaded:
		body := tui.StyleHeader.Foreground(tui.ColorOrange).Render("ℹ No Book Loaded") + "\n" +
			tui.StyleHelp.Render("Upload a PDF to get started with question answering")
		return tui.StyleCard.BorderForeground(tui.ColorOrange).Render(body)
	}
	return ""
}

// contentWidth is the usable width inside the outer frame.
func contentWidth(termWidth int) int {
	h, _ := frameStyle().GetFrameSize()
	w := termWidth - h
	if w < 40 {
		w = 40
	}
	return w
}

func frameStyle() lipgloss.Style {
	return tui.StyleBorder.Padding(1, 2)
}

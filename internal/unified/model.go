package unified

import (
	"log/slog"

	"github.com/blackwell-systems/docqa/internal/settings"
	"github.com/blackwell-systems/docqa/internal/tui"
	"github.com/blackwell-systems/docqa/internal/workflow"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the unified TUI orchestrator that manages view switching.
//
// Controller state lives in the session and is only touched from Update.
// Request results are applied whichever screen is showing.
type Model struct {
	sess  *workflow.Session
	theme *settings.ThemeStore
	keys  tui.Keys
	log   *slog.Logger

	dark    bool
	width   int
	height  int
	spinner spinner.Model

	// View models
	home   HomeModel
	upload UploadModel
	ask    AskModel
}

// New creates a new unified model starting at the home screen.
func New(sess *workflow.Session, theme *settings.ThemeStore, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}
	keys := tui.NewKeys()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.StyleHighlight

	dark := theme.Load()
	tui.ApplyTheme(dark)

	return Model{
		sess:    sess,
		theme:   theme,
		keys:    keys,
		log:     log,
		dark:    dark,
		spinner: sp,
		home:    NewHomeModel(sess),
		upload:  NewUploadModel(sess, keys),
		ask:     NewAskModel(sess, keys),
	}
}

// Dark reports the active theme.
func (m Model) Dark() bool { return m.dark }

// Screen reports the active screen.
func (m Model) Screen() workflow.Screen { return m.sess.Nav.Current() }

func (m Model) Init() tea.Cmd {
	return m.sess.Status.Refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Every screen keeps its layout current, visible or not.
		m.home, _ = m.home.Update(msg)
		m.upload, _ = m.upload.Update(msg)
		m.ask, _ = m.ask.Update(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Theme):
			m.toggleTheme()
			return m, nil
		case key.Matches(msg, m.keys.Back) && m.sess.Nav.Current() != workflow.ScreenHome:
			m.sess.Nav.Back()
			m.upload.Blur()
			m.ask.Blur()
			return m, nil
		}
		return m.updateCurrentView(msg)

	case NavigateMsg:
		return m.handleNavigation(msg)

	case QuitAppMsg:
		return m, tea.Quit

	case candidateMsg:
		if !m.upload.current(msg) {
			m.log.Debug("stale candidate dropped", "input", msg.Input, "seq", msg.Seq)
			return m, nil
		}
		if msg.Err != nil {
			m.log.Info("candidate rejected", "input", msg.Input, "error", msg.Err)
		}
		if msg.Dropped {
			m.sess.Upload.Drop(msg.Candidate)
		} else {
			m.sess.Upload.SelectFile(msg.Candidate)
		}
		// Selecting a file clears the answer.
		m.ask.Refresh()
		return m, nil

	case workflow.StatusFetched:
		m.sess.Status.Apply(msg)
		return m, nil

	case workflow.UploadDone:
		return m, m.sess.Upload.Complete(msg)

	case workflow.AnswerDone:
		if m.sess.Ask.Complete(msg) {
			m.ask.Refresh()
			if m.sess.Nav.Current() == workflow.ScreenAsk {
				cmd := m.ask.Focus()
				return m, cmd
			}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tui.ClearActiveCmdMsg:
		m.upload, _ = m.upload.Update(msg)
		m.ask, _ = m.ask.Update(msg)
		return m, nil
	}

	return m.updateCurrentView(msg)
}

// busy reports whether any request is in flight.
func (m Model) busy() bool {
	return m.sess.Upload.Phase() == workflow.PhaseInFlight ||
		m.sess.Ask.Phase() == workflow.PhaseInFlight
}

func (m *Model) toggleTheme() {
	m.dark = !m.dark
	tui.ApplyTheme(m.dark)
	if err := m.theme.Save(m.dark); err != nil {
		m.log.Warn("theme not saved", "error", err)
	}
}

func (m Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	wasBusy := m.busy()

	var cmd tea.Cmd
	switch m.sess.Nav.Current() {
	case workflow.ScreenHome:
		m.home, cmd = m.home.Update(msg)
	case workflow.ScreenUpload:
		m.upload, cmd = m.upload.Update(msg)
		if !wasBusy && m.busy() {
			// The new upload cleared the answer.
			m.ask.Refresh()
		}
	case workflow.ScreenAsk:
		m.ask, cmd = m.ask.Update(msg)
	}

	if !wasBusy && m.busy() {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) handleNavigation(msg NavigateMsg) (tea.Model, tea.Cmd) {
	m.sess.Nav.Go(msg.Target)
	m.upload.Blur()
	m.ask.Blur()

	var cmd tea.Cmd
	switch m.sess.Nav.Current() {
	case workflow.ScreenUpload:
		cmd = m.upload.Focus()
	case workflow.ScreenAsk:
		cmd = m.ask.Focus()
	}
	return m, cmd
}

func (m Model) View() string {
	var content string
	switch m.sess.Nav.Current() {
	case workflow.ScreenUpload:
		content = m.upload.View(m.spinner.View())
	case workflow.ScreenAsk:
		content = m.ask.View(m.spinner.View())
	default:
		content = m.home.View()
	}

	style := frameStyle()
	if m.width > 0 {
		style = style.Width(m.width - style.GetHorizontalBorderSize())
	}
	return style.Render(content)
}

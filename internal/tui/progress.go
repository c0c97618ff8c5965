package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// ProgressReader wraps an io.Reader and reports the running byte count
// through a channel. Sends never block; updates are dropped if the
// receiver is behind.
type ProgressReader struct {
	reader     io.Reader
	total      int64
	read       int64
	lastReport int64
	ch         chan<- int64
}

// reportEvery bounds how often progress is sent.
const reportEvery = 256 << 10

// NewProgressReader creates a reader that reports progress on ch.
func NewProgressReader(r io.Reader, total int64, ch chan<- int64) *ProgressReader {
	return &ProgressReader{reader: r, total: total, ch: ch}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)

	if pr.ch != nil && n > 0 {
		done := err == io.EOF || pr.read >= pr.total
		if pr.read-pr.lastReport >= reportEvery || done {
			select {
			case pr.ch <- pr.read:
				pr.lastReport = pr.read
			default:
			}
		}
	}
	return n, err
}

// BytesRead returns the number of bytes read so far.
func (pr *ProgressReader) BytesRead() int64 { return pr.read }

type progressMsg int64

type tickMsg time.Time

type progressModel struct {
	bar        progress.Model
	total      int64
	current    int64
	label      string
	done       bool
	cancelled  bool
	progressCh <-chan int64
	finished   <-chan struct{}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForProgress(m.progressCh, m.finished))
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForProgress(ch <-chan int64, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-ch:
			return progressMsg(n)
		case <-done:
			return progressMsg(-1)
		}
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}

	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m, tickCmd()

	case progressMsg:
		if int64(msg) < 0 {
			m.done = true
			return m, tea.Quit
		}
		m.current = int64(msg)
		if m.current >= m.total {
			m.done = true
			return m, tea.Quit
		}
		return m, waitForProgress(m.progressCh, m.finished)

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 20
		if m.bar.Width > 80 {
			m.bar.Width = 80
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}
	return fmt.Sprintf("%s\n%s\n%s / %s (%.0f%%)\n",
		m.label,
		m.bar.ViewAs(percent),
		humanize.Bytes(uint64(m.current)),
		humanize.Bytes(uint64(m.total)),
		percent*100,
	)
}

// ShowProgress renders a progress bar until total bytes have been reported
// on progressCh or done is closed. Ctrl+C stops the display only; the
// transfer itself keeps running, since requests are not cancellable.
func ShowProgress(label string, total int64, progressCh <-chan int64, done <-chan struct{}) (stoppedEarly bool, err error) {
	m := progressModel{
		bar:        progress.New(progress.WithDefaultGradient()),
		total:      total,
		label:      label,
		progressCh: progressCh,
		finished:   done,
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	if fm, ok := finalModel.(progressModel); ok && fm.cancelled {
		return true, nil
	}
	return false, nil
}

package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/blackwell-systems/docqa/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusFetched carries the result of one book-status request.
type StatusFetched struct {
	Status *backend.BookStatus
	Err    error
}

// StatusSync holds the last successfully fetched BookStatus snapshot.
// A failed refresh keeps the previous snapshot; failures are only logged.
type StatusSync struct {
	gw      backend.Gateway
	timeout time.Duration
	log     *slog.Logger

	snapshot *backend.BookStatus
}

func NewStatusSync(gw backend.Gateway, timeout time.Duration, log *slog.Logger) *StatusSync {
	log = orDefault(log)
	return &StatusSync{gw: gw, timeout: timeout, log: log}
}

// Snapshot returns the current status and whether one was ever obtained.
func (s *StatusSync) Snapshot() (backend.BookStatus, bool) {
	if s.snapshot == nil {
		return backend.BookStatus{}, false
	}
	return *s.snapshot, true
}

// Refresh returns a command that fetches the status once.
func (s *StatusSync) Refresh() tea.Cmd {
	gw, timeout := s.gw, s.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		st, err := gw.BookStatus(ctx)
		return StatusFetched{Status: st, Err: err}
	}
}

// Apply folds a fetch result into the snapshot. It reports whether the held
// value changed; an identical snapshot is not replaced.
func (s *StatusSync) Apply(msg StatusFetched) bool {
	if msg.Err != nil || msg.Status == nil {
		s.log.Warn("book status refresh failed", "error", msg.Err)
		return false
	}
	if s.snapshot != nil && *s.snapshot == *msg.Status {
		return false
	}
	st := *msg.Status
	s.snapshot = &st
	return true
}

// withTimeout bounds a request. A zero timeout means no deadline.
func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

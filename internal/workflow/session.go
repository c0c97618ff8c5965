package workflow

import (
	"log/slog"
	"time"

	"github.com/blackwell-systems/docqa/internal/backend"
)

// Options configures a Session.
type Options struct {
	// Timeout bounds status and ask requests. Zero means no deadline.
	Timeout time.Duration
	// UploadTimeout bounds uploads, which include server-side ingestion.
	UploadTimeout time.Duration
	Logger        *slog.Logger
}

// Session bundles the navigation state and the three controllers that share
// one backend.
type Session struct {
	Nav    *Navigator
	Status *StatusSync
	Upload *UploadController
	Ask    *AskController
}

// NewSession wires controllers against gw.
func NewSession(gw backend.Gateway, opts Options) *Session {
	log := orDefault(opts.Logger).With("component", "workflow")

	status := NewStatusSync(gw, opts.Timeout, log)
	ask := NewAskController(gw, opts.Timeout, log)
	return &Session{
		Nav:    NewNavigator(),
		Status: status,
		Ask:    ask,
		Upload: NewUploadController(gw, ask, status, opts.UploadTimeout, log),
	}
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

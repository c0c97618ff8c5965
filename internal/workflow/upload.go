package workflow

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blackwell-systems/docqa/internal/backend"
	"github.com/blackwell-systems/docqa/internal/document"
	tea "github.com/charmbracelet/bubbletea"
)

// User-facing upload messages.
const (
	MsgInvalidPick       = "Please select a valid PDF file"
	MsgInvalidDrop       = "Please drop a valid PDF file"
	MsgNoSelection       = "Please select a PDF file first"
	MsgUploadFailed      = "Upload failed"
	MsgUploadUnreachable = "Failed to connect to server. Make sure the backend is running."
	MsgUnreadable        = "Could not read the selected file"
)

var errUnreadable = errors.New("reading selected file")

// OutcomeKind tags an UploadOutcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeFailure
)

// UploadOutcome is the terminal result of one upload attempt, or the
// immediate rejection of an invalid selection.
type UploadOutcome struct {
	Kind     OutcomeKind
	Filename string
	Pages    int
	Chunks   int
	Message  string // failure text
}

// OK reports whether the outcome is a success.
func (o UploadOutcome) OK() bool { return o.Kind == OutcomeSuccess }

// Text is the status line shown for the outcome.
func (o UploadOutcome) Text() string {
	if o.OK() {
		return fmt.Sprintf("✓ %s processed successfully! %d pages, %d chunks created.",
			o.Filename, o.Pages, o.Chunks)
	}
	return o.Message
}

func failure(msg string) *UploadOutcome {
	return &UploadOutcome{Kind: OutcomeFailure, Message: msg}
}

// UploadDone carries the result of one upload request.
type UploadDone struct {
	File   document.Candidate
	Result *backend.UploadResult
	Err    error
}

// ReaderWrapper decorates the file reader before it is sent, e.g. to report
// progress. size is the file size in bytes.
type ReaderWrapper func(r io.Reader, size int64) io.Reader

// UploadController owns the selected file, the upload phase, and the last
// upload outcome.
type UploadController struct {
	m       machine
	gw      backend.Gateway
	timeout time.Duration
	log     *slog.Logger
	wrap    ReaderWrapper

	answers *AskController
	status  *StatusSync

	selected *document.Candidate
	outcome  *UploadOutcome
}

// NewUploadController wires the controller. A new selection or upload clears
// answers; a successful upload refreshes status. Either may be nil.
func NewUploadController(gw backend.Gateway, answers *AskController, status *StatusSync, timeout time.Duration, log *slog.Logger) *UploadController {
	log = orDefault(log)
	return &UploadController{
		gw:      gw,
		timeout: timeout,
		log:     log,
		answers: answers,
		status:  status,
	}
}

// SetReaderWrapper installs w for subsequent uploads.
func (c *UploadController) SetReaderWrapper(w ReaderWrapper) { c.wrap = w }

// Watch registers fn to be called on every phase change.
func (c *UploadController) Watch(fn func(Phase)) { c.m.watch(fn) }

func (c *UploadController) Phase() Phase { return c.m.phase }

// Selected returns the current selection, if any.
func (c *UploadController) Selected() (document.Candidate, bool) {
	if c.selected == nil {
		return document.Candidate{}, false
	}
	return *c.selected, true
}

// Outcome returns the last published outcome, if any.
func (c *UploadController) Outcome() (UploadOutcome, bool) {
	if c.outcome == nil {
		return UploadOutcome{}, false
	}
	return *c.outcome, true
}

// CanSubmit drives the upload affordance: a file is selected and nothing is in flight.
func (c *UploadController) CanSubmit() bool {
	return c.selected != nil && c.m.phase == PhaseIdle
}

// SelectFile handles an explicit pick. It reports whether cand was accepted.
func (c *UploadController) SelectFile(cand document.Candidate) bool {
	return c.choose(cand, MsgInvalidPick)
}

// Drop handles a drag-and-drop. Same rule as SelectFile, different wording.
func (c *UploadController) Drop(cand document.Candidate) bool {
	return c.choose(cand, MsgInvalidDrop)
}

func (c *UploadController) choose(cand document.Candidate, rejectMsg string) bool {
	if !cand.IsPDF() {
		c.outcome = failure(rejectMsg)
		return false
	}
	c.selected = &cand
	c.outcome = nil
	if c.answers != nil {
		c.answers.Clear()
	}
	return true
}

// Submit starts an upload of the selected file. It returns the command that
// performs the request, or nil when nothing is sent: while in flight (no-op)
// or with no selection (a failure outcome is published instead).
func (c *UploadController) Submit() tea.Cmd {
	if c.m.phase != PhaseIdle {
		return nil
	}
	if c.selected == nil {
		c.outcome = failure(MsgNoSelection)
		return nil
	}

	c.outcome = nil
	if c.answers != nil {
		c.answers.Clear()
	}
	c.m.advance(PhaseInFlight)

	file := *c.selected
	gw, timeout, wrap := c.gw, c.timeout, c.wrap
	return func() tea.Msg {
		f, err := file.Open()
		if err != nil {
			return UploadDone{File: file, Err: fmt.Errorf("%w: %v", errUnreadable, err)}
		}
		defer f.Close()

		var r io.Reader = f
		if wrap != nil {
			r = wrap(f, file.Size)
		}

		ctx, cancel := withTimeout(timeout)
		defer cancel()
		res, err := gw.Upload(ctx, file.Name, r)
		return UploadDone{File: file, Result: res, Err: err}
	}
}

// Complete publishes the outcome of msg and returns the phase to idle. After
// a success it returns the status refresh command. A message arriving while
// no upload is in flight is ignored.
func (c *UploadController) Complete(msg UploadDone) tea.Cmd {
	if c.m.phase != PhaseInFlight {
		return nil
	}
	outcome := c.outcomeFor(msg)
	c.m.finish(func() { c.outcome = outcome })

	if outcome.OK() && c.status != nil {
		return c.status.Refresh()
	}
	return nil
}

func (c *UploadController) outcomeFor(msg UploadDone) *UploadOutcome {
	if msg.Err == nil && msg.Result != nil {
		name := msg.Result.Filename
		if name == "" {
			name = msg.File.Name
		}
		return &UploadOutcome{
			Kind:     OutcomeSuccess,
			Filename: name,
			Pages:    msg.Result.Pages,
			Chunks:   msg.Result.Chunks,
		}
	}

	if errors.Is(msg.Err, errUnreadable) {
		c.log.Error("upload aborted", "file", msg.File.Path, "error", msg.Err)
		return failure(MsgUnreadable)
	}

	be := backend.AsError(msg.Err)
	if be == nil {
		be = &backend.Error{Kind: backend.KindTransport, Op: "upload", Err: errors.New("empty response")}
	}
	if be.Kind == backend.KindApplication {
		c.log.Info("upload rejected", "file", msg.File.Name, "status", be.Status,
			"request_id", be.RequestID, "detail", be.Message)
		if be.Message == "" {
			return failure(MsgUploadFailed)
		}
		return failure(be.Message)
	}
	c.log.Error("upload transport failure", "file", msg.File.Name,
		"request_id", be.RequestID, "error", be.Err)
	return failure(MsgUploadUnreachable)
}

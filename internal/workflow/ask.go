package workflow

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/blackwell-systems/docqa/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgAskUnreachable replaces the answer when the backend can't be reached.
const MsgAskUnreachable = "Failed to get answer. Make sure the backend is running and a PDF is uploaded."

// AnswerResult is the terminal result of one question.
type AnswerResult struct {
	Question string
	Answer   string
	Sources  []backend.Source
}

// AnswerDone carries the result of one ask request.
type AnswerDone struct {
	Question string // as entered
	Answer   *backend.Answer
	Err      error
}

// AskController owns the ask phase and the last answer.
type AskController struct {
	m       machine
	gw      backend.Gateway
	timeout time.Duration
	log     *slog.Logger

	result *AnswerResult
}

func NewAskController(gw backend.Gateway, timeout time.Duration, log *slog.Logger) *AskController {
	log = orDefault(log)
	return &AskController{gw: gw, timeout: timeout, log: log}
}

// Watch registers fn to be called on every phase change.
func (c *AskController) Watch(fn func(Phase)) { c.m.watch(fn) }

func (c *AskController) Phase() Phase { return c.m.phase }

// Result returns the last answer, if any.
func (c *AskController) Result() (AnswerResult, bool) {
	if c.result == nil {
		return AnswerResult{}, false
	}
	return *c.result, true
}

// Clear drops the current answer.
func (c *AskController) Clear() { c.result = nil }

// CanSubmit drives the ask affordance.
func (c *AskController) CanSubmit(text string) bool {
	return c.m.phase == PhaseIdle && strings.TrimSpace(text) != ""
}

// Submit sends text as a question. It returns nil without touching any state
// when the trimmed text is empty or a question is already in flight.
func (c *AskController) Submit(text string) tea.Cmd {
	if !c.CanSubmit(text) {
		return nil
	}
	question := strings.TrimSpace(text)

	c.result = nil
	c.m.advance(PhaseInFlight)

	gw, timeout := c.gw, c.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		a, err := gw.Ask(ctx, question)
		return AnswerDone{Question: text, Answer: a, Err: err}
	}
}

// Complete publishes the answer carried by msg and returns the phase to
// idle. It reports whether msg was applied.
func (c *AskController) Complete(msg AnswerDone) bool {
	if c.m.phase != PhaseInFlight {
		return false
	}
	result := c.resultFor(msg)
	return c.m.finish(func() { c.result = result })
}

func (c *AskController) resultFor(msg AnswerDone) *AnswerResult {
	if msg.Err == nil && msg.Answer != nil {
		q := msg.Answer.Question
		if q == "" {
			q = strings.TrimSpace(msg.Question)
		}
		sources := msg.Answer.Sources
		if sources == nil {
			sources = []backend.Source{}
		}
		return &AnswerResult{Question: q, Answer: msg.Answer.Answer, Sources: sources}
	}

	be := backend.AsError(msg.Err)
	if be == nil {
		be = &backend.Error{Kind: backend.KindTransport, Op: "ask", Err: errors.New("empty response")}
	}
	answer := MsgAskUnreachable
	if be.Kind == backend.KindApplication {
		detail := be.Message
		if detail == "" {
			detail = http.StatusText(be.Status)
		}
		answer = "Error: " + detail
		c.log.Info("question rejected", "status", be.Status, "request_id", be.RequestID, "detail", be.Message)
	} else {
		c.log.Error("ask transport failure", "request_id", be.RequestID, "error", be.Err)
	}
	return &AnswerResult{Question: msg.Question, Answer: answer, Sources: []backend.Source{}}
}

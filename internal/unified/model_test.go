package unified

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blackwell-systems/docqa/internal/backend"
	"github.com/blackwell-systems/docqa/internal/settings"
	"github.com/blackwell-systems/docqa/internal/workflow"
	tea "github.com/charmbracelet/bubbletea"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeServer struct {
	mu        sync.Mutex
	replies   map[string]string
	calls     map[string]int
	questions []string
}

func newFakeServer(t *testing.T) (*fakeServer, string) {
	t.Helper()
	fs := &fakeServer{replies: map[string]string{}, calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.calls[r.URL.Path]++
		if r.URL.Path == "/ask" {
			var req struct {
				Question string `json:"question"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			fs.questions = append(fs.questions, req.Question)
		} else {
			_, _ = io.Copy(io.Discard, r.Body)
		}
		body, ok := fs.replies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return fs, srv.URL
}

func (fs *fakeServer) on(path, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.replies[path] = body
}

func (fs *fakeServer) count(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.calls[path]
}

func (fs *fakeServer) question(i int) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if i >= len(fs.questions) {
		return ""
	}
	return fs.questions[i]
}

func newTestModel(t *testing.T, url string, kv settings.KV) Model {
	t.Helper()
	sess := workflow.NewSession(backend.New(url, quietLog), workflow.Options{
		Timeout:       5 * time.Second,
		UploadTimeout: 5 * time.Second,
		Logger:        quietLog,
	})
	m := New(sess, settings.NewThemeStore(kv, nil), quietLog)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

// isResult reports messages that carry work results. Timer-driven messages
// (cursor blink, spinner, highlight) are not fed back.
func isResult(msg tea.Msg) bool {
	switch msg.(type) {
	case workflow.StatusFetched, workflow.UploadDone, workflow.AnswerDone,
		candidateMsg, NavigateMsg, QuitAppMsg:
		return true
	}
	return false
}

// runCmd executes cmd, expanding batches, and collects what it produced
// within wait.
func runCmd(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	out := make(chan tea.Msg, 64)
	var wg sync.WaitGroup
	var spawn func(tea.Cmd)
	spawn = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, cc := range batch {
					spawn(cc)
				}
				return
			}
			out <- msg
		}()
	}
	spawn(cmd)

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	timeout := time.After(wait)

	var msgs []tea.Msg
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-done:
			for {
				select {
				case msg := <-out:
					msgs = append(msgs, msg)
				default:
					return msgs
				}
			}
		case <-timeout:
			return msgs
		}
	}
}

// settle runs cmd and feeds its results back into m until nothing is left.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for round := 0; cmd != nil && round < 10; round++ {
		var next []tea.Cmd
		for _, msg := range runCmd(cmd, time.Second) {
			if !isResult(msg) {
				continue
			}
			tm, c := m.Update(msg)
			m = tm.(Model)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
	return m
}

// send delivers msg and settles whatever it started.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	tm, cmd := m.Update(msg)
	return settle(t, tm.(Model), cmd)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%%EOF\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInit_ShowsBookBanner(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
		absent []string
	}{
		{
			name:   "default book",
			status: `{"has_default_book":true,"default_book_name":"default_book.pdf","documents_loaded":true,"total_chunks":42}`,
			want:   "Default Book Loaded",
			absent: []string{"No Book Loaded"},
		},
		{
			name:   "nothing loaded",
			status: `{"has_default_book":false,"documents_loaded":false,"total_chunks":0}`,
			want:   "No Book Loaded",
			absent: []string{"Default Book Loaded"},
		},
		{
			name:   "uploaded only",
			status: `{"has_default_book":false,"documents_loaded":true,"total_chunks":9}`,
			absent: []string{"Default Book Loaded", "No Book Loaded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, url := newFakeServer(t)
			fs.on("/book-status", tt.status)
			m := newTestModel(t, url, settings.NewMemoryKV())
			m = settle(t, m, m.Init())

			if fs.count("/book-status") != 1 {
				t.Fatalf("book-status calls = %d, want 1", fs.count("/book-status"))
			}
			view := m.View()
			if tt.want != "" && !strings.Contains(view, tt.want) {
				t.Errorf("view missing %q", tt.want)
			}
			for _, s := range tt.absent {
				if strings.Contains(view, s) {
					t.Errorf("view unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestInit_StatusFailureIsSilent(t *testing.T) {
	_, url := newFakeServer(t) // no replies: every call 404s
	m := newTestModel(t, url, settings.NewMemoryKV())
	m = settle(t, m, m.Init())

	if _, ok := m.sess.Status.Snapshot(); ok {
		t.Fatal("snapshot set after failed refresh")
	}
	if strings.Contains(m.View(), "Not Found") {
		t.Error("refresh failure surfaced to the user")
	}
}

func TestNavigation(t *testing.T) {
	_, url := newFakeServer(t)
	m := newTestModel(t, url, settings.NewMemoryKV())

	m = send(t, m, runes("u"))
	if m.Screen() != workflow.ScreenUpload {
		t.Fatalf("screen = %s, want upload", m.Screen())
	}
	m = send(t, m, escKey)
	if m.Screen() != workflow.ScreenHome {
		t.Fatalf("screen = %s, want home", m.Screen())
	}
	m = send(t, m, runes("a"))
	if m.Screen() != workflow.ScreenAsk {
		t.Fatalf("screen = %s, want ask", m.Screen())
	}
	// Typing on the ask screen goes to the input, not the home shortcuts.
	m = send(t, m, runes("u"))
	if m.Screen() != workflow.ScreenAsk {
		t.Fatalf("screen = %s, want ask", m.Screen())
	}
	if got := m.ask.input.Value(); got != "u" {
		t.Errorf("question input = %q, want %q", got, "u")
	}
}

func TestUpload_PasteIsDropAndNeverTyped(t *testing.T) {
	_, url := newFakeServer(t)
	m := newTestModel(t, url, settings.NewMemoryKV())
	m = send(t, m, runes("u"))

	txt := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(txt, []byte("plain text notes\n"), 0600); err != nil {
		t.Fatal(err)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(txt), Paste: true})

	if v := m.upload.input.Value(); v != "" {
		t.Errorf("drop leaked into input: %q", v)
	}
	out, ok := m.sess.Upload.Outcome()
	if !ok || out.Message != workflow.MsgInvalidDrop {
		t.Fatalf("outcome = %+v, want %q", out, workflow.MsgInvalidDrop)
	}

	pdf := writePDF(t, "book.pdf")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'" + pdf + "'"), Paste: true})
	sel, ok := m.sess.Upload.Selected()
	if !ok || sel.Name != "book.pdf" {
		t.Fatalf("selected = %+v, %v", sel, ok)
	}
	if _, ok := m.sess.Upload.Outcome(); ok {
		t.Error("accepted drop left an outcome")
	}
}

func TestUpload_PickThenSubmit(t *testing.T) {
	fs, url := newFakeServer(t)
	fs.on("/book-status", `{"has_default_book":false,"documents_loaded":true,"total_chunks":12}`)
	fs.on("/upload", `{"message":"PDF processed successfully","filename":"book.pdf","pages":3,"chunks":12}`)
	m := newTestModel(t, url, settings.NewMemoryKV())
	m = send(t, m, runes("u"))

	// Submitting with nothing selected is a local failure.
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	if out, _ := m.sess.Upload.Outcome(); out.Message != workflow.MsgNoSelection {
		t.Fatalf("outcome = %+v", out)
	}
	if fs.count("/upload") != 0 {
		t.Fatal("upload sent without a selection")
	}

	m.upload.input.SetValue(writePDF(t, "book.pdf"))
	m = send(t, m, enterKey) // pick
	if _, ok := m.sess.Upload.Selected(); !ok {
		t.Fatal("pick not selected")
	}
	if !strings.Contains(m.View(), "File selected: 0.00 MB") {
		t.Error("selected file size not shown")
	}

	m = send(t, m, enterKey) // empty input: upload
	if fs.count("/upload") != 1 {
		t.Fatalf("upload calls = %d, want 1", fs.count("/upload"))
	}
	if fs.count("/book-status") != 1 {
		t.Errorf("book-status calls = %d, want 1 after success", fs.count("/book-status"))
	}
	if m.sess.Upload.Phase() != workflow.PhaseIdle {
		t.Errorf("phase = %s, want idle", m.sess.Upload.Phase())
	}
	view := m.View()
	if !strings.Contains(view, "✓ book.pdf processed successfully! 3 pages, 12 chunks created.") {
		t.Errorf("success text missing from view:\n%s", view)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if m.Screen() != workflow.ScreenAsk {
		t.Errorf("screen = %s, want ask after success shortcut", m.Screen())
	}
}

func TestUpload_LaterPickWinsOverSlowerEarlierOne(t *testing.T) {
	_, url := newFakeServer(t)
	m := newTestModel(t, url, settings.NewMemoryKV())
	m = send(t, m, runes("u"))

	m.upload.input.SetValue(writePDF(t, "first.pdf"))
	tm, firstCmd := m.Update(enterKey)
	m = tm.(Model)
	m.upload.input.SetValue(writePDF(t, "second.pdf"))
	tm, secondCmd := m.Update(enterKey)
	m = tm.(Model)

	// The second inspection finishes first.
	for _, cmd := range []tea.Cmd{secondCmd, firstCmd} {
		for _, msg := range runCmd(cmd, time.Second) {
			if _, ok := msg.(candidateMsg); ok {
				tm, _ := m.Update(msg)
				m = tm.(Model)
			}
		}
	}

	sel, ok := m.sess.Upload.Selected()
	if !ok || sel.Name != "second.pdf" {
		t.Errorf("selected = %q, %v; want second.pdf", sel.Name, ok)
	}
}

func TestAsk_SubmitsTrimmedQuestionOnce(t *testing.T) {
	fs, url := newFakeServer(t)
	fs.on("/ask", `{"question":"what is torque?","answer":"A turning force.","sources":[{"page":2,"chunk_id":7,"text":"Torque is the rotational analogue of force."}]}`)
	m := newTestModel(t, url, settings.NewMemoryKV())
	m = send(t, m, runes("a"))
	m.ask.input.SetValue("  what is torque?  ")

	tm, cmd := m.Update(enterKey)
	m = tm.(Model)
	if m.sess.Ask.Phase() != workflow.PhaseInFlight {
		t.Fatalf("phase = %s, want in-flight", m.sess.Ask.Phase())
	}
	if m.ask.input.Focused() {
		t.Error("input still focused while asking")
	}
	if !strings.Contains(m.View(), "Thinking...") {
		t.Error("missing in-flight label")
	}

	// A second enter while in flight sends nothing.
	tm, again := m.Update(enterKey)
	m = tm.(Model)
	m = settle(t, m, tea.Batch(cmd, again))

	if n := fs.count("/ask"); n != 1 {
		t.Fatalf("ask calls = %d, want 1", n)
	}
	if got := fs.question(0); got != "what is torque?" {
		t.Errorf("question sent = %q", got)
	}
	view := m.View()
	for _, want := range []string{"A turning force.", "Page 3 • Chunk #7", "Sources from Document"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !m.ask.input.Focused() {
		t.Error("input not refocused after the answer")
	}
}

func TestAsk_EmptyQuestionIsIgnored(t *testing.T) {
	fs, url := newFakeServer(t)
	m := newTestModel(t, url, settings.NewMemoryKV())
	m = send(t, m, runes("a"))
	m.ask.input.SetValue("   ")
	m = send(t, m, enterKey)

	if fs.count("/ask") != 0 {
		t.Fatal("blank question sent")
	}
	if _, ok := m.sess.Ask.Result(); ok {
		t.Error("blank question produced a result")
	}
}

func TestAsk_ResultAppliedAfterLeavingScreen(t *testing.T) {
	fs, url := newFakeServer(t)
	fs.on("/ask", `{"question":"q","answer":"later","sources":[]}`)
	m := newTestModel(t, url, settings.NewMemoryKV())
	m = send(t, m, runes("a"))
	m.ask.input.SetValue("q")

	tm, cmd := m.Update(enterKey)
	m = tm.(Model)
	tm, _ = m.Update(escKey)
	m = tm.(Model)
	m = settle(t, m, cmd)

	if m.Screen() != workflow.ScreenHome {
		t.Fatalf("screen = %s, want home", m.Screen())
	}
	res, ok := m.sess.Ask.Result()
	if !ok || res.Answer != "later" {
		t.Fatalf("result = %+v, %v", res, ok)
	}
	if m.sess.Ask.Phase() != workflow.PhaseIdle {
		t.Errorf("phase = %s", m.sess.Ask.Phase())
	}
}

func TestThemeToggleIsSaved(t *testing.T) {
	_, url := newFakeServer(t)
	kv := settings.NewMemoryKV()
	m := newTestModel(t, url, kv)
	if m.Dark() {
		t.Fatal("default theme should be light")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.Dark() {
		t.Fatal("toggle did not switch to dark")
	}
	if v, ok, _ := kv.Get(settings.DarkModeKey); !ok || v != "true" {
		t.Errorf("stored = %q, %v", v, ok)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if v, _, _ := kv.Get(settings.DarkModeKey); v != "false" || m.Dark() {
		t.Errorf("second toggle: stored %q dark=%v", v, m.Dark())
	}
}

package workflow_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/blackwell-systems/docqa/internal/backend"
	"github.com/blackwell-systems/docqa/internal/document"
	"github.com/blackwell-systems/docqa/internal/workflow"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// reply is a canned HTTP response.
type reply struct {
	status int
	body   string
}

// fakeBackend is an httptest server that serves canned replies per path and
// counts calls.
type fakeBackend struct {
	srv *httptest.Server

	mu      sync.Mutex
	replies map[string]reply
	calls   map[string]int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{replies: map[string]reply{}, calls: map[string]int{}}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		fb.mu.Lock()
		fb.calls[r.URL.Path]++
		rep, ok := fb.replies[r.URL.Path]
		fb.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		_, _ = io.WriteString(w, rep.body)
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) on(path string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.replies[path] = reply{status: status, body: body}
}

func (fb *fakeBackend) count(path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[path]
}

func (fb *fakeBackend) session() *workflow.Session {
	return workflow.NewSession(backend.New(fb.srv.URL, quietLog), workflow.Options{
		Timeout:       5 * time.Second,
		UploadTimeout: 5 * time.Second,
		Logger:        quietLog,
	})
}

// deadSession points at a closed server, so every call is a transport failure.
func deadSession(t *testing.T) *workflow.Session {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return workflow.NewSession(backend.New(url, quietLog), workflow.Options{Logger: quietLog})
}

func pdfCandidate(t *testing.T, name string) document.Candidate {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := "%PDF-1.4\n%%EOF\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return document.Candidate{Name: name, Path: path, Size: int64(len(content)), MediaType: document.MediaTypePDF}
}

func textCandidate(name string) document.Candidate {
	return document.Candidate{Name: name, Path: "/nowhere/" + name, Size: 10, MediaType: "text/plain"}
}

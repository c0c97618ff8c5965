package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/docqa/internal/backend"
	"github.com/blackwell-systems/docqa/internal/settings"
	"github.com/blackwell-systems/docqa/internal/workflow"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestBackend(t *testing.T, routes map[string]string) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail":"boom"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return backend.New(srv.URL, quietLog)
}

func TestCollectStatus(t *testing.T) {
	c := newTestBackend(t, map[string]string{
		"/book-status": `{"has_default_book":true,"default_book_name":"default_book.pdf","documents_loaded":true,"total_chunks":812}`,
		"/health":      `{"status":"healthy","documents_count":812,"model":"gemini"}`,
	})

	got, err := collectStatus(context.Background(), c)
	if err != nil {
		t.Fatalf("collectStatus: %v", err)
	}
	if got.Book == nil || got.Book.TotalChunks != 812 || got.Book.DefaultBookName != "default_book.pdf" {
		t.Errorf("book = %+v", got.Book)
	}
	if got.Health == nil || got.Health.Model != "gemini" {
		t.Errorf("health = %+v", got.Health)
	}

	var buf bytes.Buffer
	printStatusText(&buf, got)
	for _, want := range []string{"Default Book Loaded: default_book.pdf", "812 chunks available", "healthy"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestCollectStatus_HealthFailureIsNotFatal(t *testing.T) {
	c := newTestBackend(t, map[string]string{
		"/book-status": `{"has_default_book":false,"documents_loaded":false,"total_chunks":0}`,
	})

	got, err := collectStatus(context.Background(), c)
	if err != nil {
		t.Fatalf("collectStatus: %v", err)
	}
	if got.Health != nil || got.HealthError == "" {
		t.Errorf("health = %+v, error %q", got.Health, got.HealthError)
	}

	var buf bytes.Buffer
	if err := printStatusJSON(&buf, got); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := decoded["health_error"]; !ok {
		t.Error("health_error missing from JSON")
	}

	buf.Reset()
	printStatusText(&buf, got)
	if !strings.Contains(buf.String(), "No Book Loaded") {
		t.Errorf("missing no-book line:\n%s", buf.String())
	}
}

func TestCollectStatus_BookStatusFailure(t *testing.T) {
	c := newTestBackend(t, map[string]string{
		"/health": `{"status":"healthy","documents_count":0,"model":"m"}`,
	})

	_, err := collectStatus(context.Background(), c)
	if err == nil {
		t.Fatal("expected error")
	}
	var be *backend.Error
	if !errors.As(err, &be) || be.Kind != backend.KindApplication || be.Message != "boom" {
		t.Errorf("err = %v", err)
	}
}

func TestPrintAnswer(t *testing.T) {
	res := workflow.AnswerResult{
		Question: "What is work?",
		Answer:   "Work is force times displacement.",
		Sources: []backend.Source{
			{Page: 0, ChunkID: 3, Text: "Work done by a constant force"},
		},
	}

	var buf bytes.Buffer
	printAnswerText(&buf, res)
	out := buf.String()
	for _, want := range []string{"Work is force times displacement.", "Page 1 • Chunk #3", "  Work done by a constant force"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := printAnswerJSON(&buf, res); err != nil {
		t.Fatal(err)
	}
	var decoded answerJSON
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Sources) != 1 || decoded.Sources[0].Page != 0 || decoded.Sources[0].ChunkID != 3 {
		t.Errorf("sources = %+v", decoded.Sources)
	}
}

func TestPrintAnswerJSON_EmptySourcesIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := printAnswerJSON(&buf, workflow.AnswerResult{Answer: "none"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"sources": []`) {
		t.Errorf("sources not an empty array:\n%s", buf.String())
	}
}

func TestRunTheme(t *testing.T) {
	kv := settings.NewMemoryKV()
	store := settings.NewThemeStore(kv, nil)

	tests := []struct {
		action string
		want   string
	}{
		{"dark", "true"},
		{"light", "false"},
		{"toggle", "true"},
		{"toggle", "false"},
	}
	for _, tt := range tests {
		if err := runTheme(store, tt.action); err != nil {
			t.Fatalf("%s: %v", tt.action, err)
		}
		if v, _, _ := kv.Get(settings.DarkModeKey); v != tt.want {
			t.Errorf("after %s stored %q, want %q", tt.action, v, tt.want)
		}
	}

	if err := runTheme(store, "sepia"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestVersionCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCQA_CONFIG", filepath.Join(dir, "config.yml"))
	t.Setenv("DOCQA_STATE_DIR", dir)

	SetVersion("1.2.3")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if closeLog != nil {
		_ = closeLog()
	}
	if got := strings.TrimSpace(buf.String()); got != "docqa 1.2.3" {
		t.Errorf("output = %q", got)
	}
}

func TestIndent(t *testing.T) {
	if got := indent("a\nb", "  "); got != "  a\n  b" {
		t.Errorf("indent = %q", got)
	}
}

package document

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MediaTypePDF is the only media type the backend ingests.
const MediaTypePDF = "application/pdf"

// Candidate is a file the user picked or dropped, before validation.
type Candidate struct {
	// Name is the base filename, sent to the backend as the upload filename.
	Name string
	// Path is the local path the bytes are read from.
	Path string
	// Size in bytes.
	Size int64
	// MediaType is sniffed from content, e.g. "application/pdf".
	MediaType string
	// Pages and Title are best-effort previews; zero values when unknown.
	Pages int
	Title string
}

// IsPDF reports whether the candidate's media type is exactly PDF.
func (c Candidate) IsPDF() bool {
	return c.MediaType == MediaTypePDF
}

// Open returns a reader over the candidate's bytes.
func (c Candidate) Open() (io.ReadCloser, error) {
	return os.Open(c.Path)
}

// Inspect stats path and determines its media type. For PDFs it also tries to
// read the page count and document title; failures there are ignored.
func Inspect(path string) (Candidate, error) {
	path = CleanPath(path)
	fi, err := os.Stat(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("reading %q: %w", path, err)
	}
	if fi.IsDir() {
		return Candidate{}, fmt.Errorf("%q is a directory", path)
	}

	c := Candidate{
		Name: filepath.Base(path),
		Path: path,
		Size: fi.Size(),
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("detecting type of %q: %w", path, err)
	}
	c.MediaType = baseType(mt.String())

	if c.IsPDF() {
		info := readPDFInfo(path)
		c.Pages, c.Title = info.Pages, info.Title
	}
	return c, nil
}

// CleanPath normalizes a path typed or dropped into the terminal. Dropped
// files often arrive quoted or with backslash-escaped spaces, and file://
// URLs are common from desktop file managers. When several files are dropped
// at once only the first is kept.
func CleanPath(s string) string {
	s = firstPath(strings.TrimSpace(s))
	if strings.HasPrefix(s, "file://") {
		if u, err := url.Parse(s); err == nil && u.Path != "" {
			s = u.Path
		} else {
			s = strings.TrimPrefix(s, "file://")
		}
	}
	if strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, s[2:])
		}
	}
	return s
}

// firstPath picks the first entry of a multi-file drop. Terminals separate
// entries by newlines (URI lists) or by unescaped spaces between quoted or
// escaped paths. A bare path with literal spaces is kept whole.
func firstPath(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return s
	}

	switch q := s[0]; {
	case q == '\'' || q == '"':
		if end := strings.IndexByte(s[1:], q); end >= 0 {
			return s[1 : end+1]
		}
		return s
	case strings.HasPrefix(s, "file://"):
		if i := strings.IndexByte(s, ' '); i >= 0 {
			return s[:i]
		}
		return s
	case strings.Contains(s, `\ `):
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			switch {
			case s[i] == '\\' && i+1 < len(s):
				i++
				b.WriteByte(s[i])
			case s[i] == ' ':
				return b.String()
			default:
				b.WriteByte(s[i])
			}
		}
		return b.String()
	}
	return s
}

// baseType strips parameters such as "; charset=utf-8".
func baseType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

package document

import (
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"
)

// headScanBytes bounds how much of a file scanTitle reads.
const headScanBytes = 16 << 10

var (
	titleLiteralRe = regexp.MustCompile(`/Title\s*\(((?:\\.|[^\\)])*)\)`)
	titleHexRe     = regexp.MustCompile(`/Title\s*<([0-9A-Fa-f]+)>`)
)

// pdfInfo is what Inspect learns about a PDF without sending it anywhere.
type pdfInfo struct {
	Pages int
	Title string
}

// readPDFInfo parses the document structure for the page count and the Info
// dictionary title. When the parser rejects the file (or panics, which the
// pdf package does on some malformed inputs) it falls back to scanning the
// head of the file for a /Title entry.
func readPDFInfo(path string) (info pdfInfo) {
	defer func() {
		if recover() != nil {
			info = pdfInfo{Title: scanTitle(path)}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return pdfInfo{Title: scanTitle(path)}
	}
	defer f.Close()

	info.Pages = r.NumPage()
	info.Title = strings.TrimSpace(r.Trailer().Key("Info").Key("Title").Text())
	if info.Title == "" {
		info.Title = scanTitle(path)
	}
	return info
}

// scanTitle looks for /Title (literal) or /Title <hex> in the first bytes of
// the file. Only uncompressed Info dictionaries are found this way.
func scanTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, headScanBytes))
	if err != nil {
		return ""
	}
	text := string(head)

	if m := titleLiteralRe.FindStringSubmatch(text); m != nil {
		return unescapeLiteral(m[1])
	}
	if m := titleHexRe.FindStringSubmatch(text); m != nil {
		return decodeHex(m[1])
	}
	return ""
}

var literalUnescaper = strings.NewReplacer(
	`\n`, "\n", `\r`, "\r", `\t`, "\t",
	`\(`, "(", `\)`, ")", `\\`, `\`,
)

func unescapeLiteral(s string) string {
	return strings.TrimSpace(literalUnescaper.Replace(s))
}

// decodeHex decodes a hex string, treating a FEFF prefix as UTF-16BE.
func decodeHex(h string) string {
	if len(h)%2 != 0 {
		return ""
	}
	raw := make([]byte, len(h)/2)
	for i := range raw {
		raw[i] = nibble(h[2*i])<<4 | nibble(h[2*i+1])
	}
	if len(raw) < 2 || raw[0] != 0xFE || raw[1] != 0xFF || len(raw)%2 != 0 {
		return strings.TrimSpace(string(raw))
	}
	raw = raw[2:]
	u := make([]uint16, len(raw)/2)
	for i := range u {
		u[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return strings.TrimSpace(string(utf16.Decode(u)))
}

func nibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

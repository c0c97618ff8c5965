package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is where the backend listens when nothing is configured.
const DefaultBaseURL = "http://localhost:8000"

const requestIDHeader = "X-Request-Id"

// Gateway is the set of backend operations the workflow controllers call.
type Gateway interface {
	BookStatus(ctx context.Context) (*BookStatus, error)
	Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error)
	Ask(ctx context.Context, question string) (*Answer, error)
}

// Client talks to the document QA backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

var _ Gateway = (*Client)(nil)

// New creates a Client for baseURL. If baseURL is empty, DefaultBaseURL is
// used. Deadlines come from the caller's context; the http.Client itself has
// no timeout so that uploads are bounded by their own, longer context.
func New(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logger.With("component", "backend"),
	}
}

// BaseURL returns the normalized base address.
func (c *Client) BaseURL() string { return c.baseURL }

// url builds an API URL from path segments.
func (c *Client) url(parts ...string) string {
	return c.baseURL + "/" + strings.Join(parts, "/")
}

// do executes req, tagging it with a fresh request id, and returns the
// response only for 2xx statuses. Everything else is translated to *Error.
func (c *Client) do(op string, req *http.Request) (*http.Response, string, error) {
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("Content-Type") == "" && req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "op", op, "request_id", reqID, "error", err)
		return nil, reqID, &Error{Kind: KindTransport, Op: op, RequestID: reqID, Err: err}
	}
	c.log.Debug("request done", "op", op, "request_id", reqID, "status", resp.StatusCode,
		"elapsed", time.Since(start))

	if err := checkStatus(op, reqID, resp); err != nil {
		_ = resp.Body.Close()
		return nil, reqID, err
	}
	return resp, reqID, nil
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into out.
func (c *Client) doJSON(ctx context.Context, op, method, url string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Op: op, Err: err}
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	resp, reqID, err := c.do(op, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return decode(op, reqID, resp.Body, out)
}

func decode(op, reqID string, r io.Reader, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return &Error{Kind: KindTransport, Op: op, RequestID: reqID,
			Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// errorBody is the backend's failure payload.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// checkStatus is the one place backend failure payloads are interpreted.
func checkStatus(op, reqID string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &Error{
		Kind:      KindApplication,
		Op:        op,
		Status:    resp.StatusCode,
		Message:   detailMessage(raw),
		RequestID: reqID,
	}
}

// detailMessage pulls a human message out of a {"detail": ...} body. detail
// is usually a string; validation failures send a list of objects with a
// "msg" field, which are joined.
func detailMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return strings.TrimSpace(string(body.Detail))
}

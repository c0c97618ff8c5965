package backend

import (
	"context"
	"net/http"
)

// Source is one excerpt the backend cites for an answer.
// Page is 0-based as sent on the wire.
type Source struct {
	Page    int    `json:"page"`
	ChunkID int    `json:"chunk_id"`
	Text    string `json:"text"`
}

// DisplayPage returns the 1-based page number shown to readers.
func (s Source) DisplayPage() int { return s.Page + 1 }

// Answer is the reply to POST /ask.
type Answer struct {
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask sends question to POST /ask.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	var a Answer
	if err := c.doJSON(ctx, "ask", http.MethodPost, c.url("ask"), askRequest{Question: question}, &a); err != nil {
		return nil, err
	}
	if a.Sources == nil {
		a.Sources = []Source{}
	}
	return &a, nil
}

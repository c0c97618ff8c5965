package backend

import (
	"context"
	"net/http"
)

// Health is the reply to GET /health.
type Health struct {
	Status         string `json:"status"`
	DocumentsCount int    `json:"documents_count"`
	Model          string `json:"model"`
}

// Health fetches GET /health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doJSON(ctx, "health", http.MethodGet, c.url("health"), nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Clear removes every ingested document via DELETE /clear and returns the
// backend's confirmation message.
func (c *Client) Clear(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, "clear", http.MethodDelete, c.url("clear"), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

package backend

import (
	"context"
	"net/http"
)

// BookStatus is the backend's ingestion snapshot.
type BookStatus struct {
	HasDefaultBook  bool   `json:"has_default_book"`
	DefaultBookName string `json:"default_book_name,omitempty"`
	DocumentsLoaded bool   `json:"documents_loaded"`
	TotalChunks     int    `json:"total_chunks"`
}

// Empty reports whether nothing at all is available to ask about.
func (s BookStatus) Empty() bool {
	return !s.HasDefaultBook && !s.DocumentsLoaded
}

// BookStatus fetches GET /book-status.
func (c *Client) BookStatus(ctx context.Context) (*BookStatus, error) {
	var s BookStatus
	if err := c.doJSON(ctx, "book-status", http.MethodGet, c.url("book-status"), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

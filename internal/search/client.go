// Package search wraps the remote conference search API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source is one ranked text snippet returned by the search backend.
// Instances live for a single call; nothing caches or deduplicates
// them across requests.
type Source struct {
	ID          string  `json:"id"`
	SourceTable string  `json:"source_table"`
	Score       float32 `json:"score"`
	TextChunk   string  `json:"text_chunk"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
	Metadata struct {
		SearchMode   string `json:"search_mode"`
		SourcesFound uint32 `json:"sources_found"`
	} `json:"metadata"`
}

// ErrNotConfigured is returned when no endpoint URL has been set.
var ErrNotConfigured = errors.New("conference search endpoint not configured")

// TransportError wraps a network-level failure reaching the search API.
type TransportError struct{ Err error }

func (e *TransportError) Error() string {
	return fmt.Sprintf("conference search request failed: %v", e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response from the search API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("conference search returned status %d: %s", e.Code, e.Body)
}

// DecodeError reports a response body that does not match the expected
// shape.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string {
	return fmt.Sprintf("conference search response malformed: %v", e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// Doer lets tests inject a fake http.Client.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a thin wrapper over the remote search endpoint.
type Client struct {
	URL  string
	Doer Doer
}

// NewClient builds a client with a bounded request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{URL: url, Doer: &http.Client{Timeout: timeout}}
}

// Search issues a single query and returns the ranked sources in the
// order the remote service produced them. One attempt, no retries, no
// caching; cancelling ctx abandons the in-flight request.
func (c *Client) Search(ctx context.Context, query string) ([]Source, error) {
	if c.URL == "" {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(queryRequest{Query: query})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	doer := c.Doer
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := doer.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(b), 300)}
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return out.Sources, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchReturnsSourcesInOrder(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotQuery = req.Query
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"answer": "ignored",
			"sources": [
				{"id": "s2", "source_table": "sessions", "score": 0.8, "text_chunk": "AI keynote June 12"},
				{"id": "s1", "score": 0.9, "text_chunk": "Robotics demo"}
			],
			"metadata": {"search_mode": "hybrid", "sources_found": 2}
		}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 5*time.Second)
	sources, err := c.Search(context.Background(), "AI sessions")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "AI sessions" {
		t.Errorf("query sent = %q", gotQuery)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	// backend order preserved even when scores disagree with it
	if sources[0].ID != "s2" || sources[1].ID != "s1" {
		t.Errorf("order = %s, %s; want s2, s1", sources[0].ID, sources[1].ID)
	}
	if sources[0].SourceTable != "sessions" {
		t.Errorf("source_table = %q", sources[0].SourceTable)
	}
	if sources[1].SourceTable != "" || sources[1].Score != 0.9 {
		t.Errorf("defaults not applied: %+v", sources[1])
	}
}

func TestSearchNotConfigured(t *testing.T) {
	c := &Client{}
	if _, err := c.Search(context.Background(), "anything"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSearchNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 5*time.Second)
	_, err := c.Search(context.Background(), "q")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if se.Code != http.StatusBadGateway {
		t.Errorf("code = %d, want 502", se.Code)
	}
}

func TestSearchMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 5*time.Second)
	_, err := c.Search(context.Background(), "q")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DecodeError", err)
	}
}

func TestSearchUnreachableEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close() // nothing listens anymore

	c := NewClient(url, time.Second)
	_, err := c.Search(context.Background(), "q")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestSearchRespectsContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and can
		// observe the client disconnect; otherwise r.Context() never fires
		// and ts.Close() deadlocks waiting on this handler.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(ts.URL, 10*time.Second)
	_, err := c.Search(ctx, "q")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

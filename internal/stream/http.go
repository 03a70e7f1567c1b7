package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPSource reads an event stream over HTTP.
type HTTPSource struct {
	URL    string
	Token  string
	Client *http.Client
}

// Describe returns the stream URL.
func (s *HTTPSource) Describe() string {
	return s.URL
}

// Stream connects once and decodes frames until the body ends.
func (s *HTTPSource) Stream(ctx context.Context, emit func(Event)) error {
	client := s.Client
	if client == nil {
		client = &http.Client{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return finish(ctx, fmt.Errorf("connect stream: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("stream request failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	dec := NewDecoder(resp.Body)
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return finish(ctx, fmt.Errorf("read stream: %w", err))
		}
		emit(ev)
	}
}

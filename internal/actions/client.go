package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"toolpanel/internal/toolstatus"
)

// ErrNoEndpoint is returned when no control-panel URL is configured.
var ErrNoEndpoint = errors.New("actions endpoint not configured")

// Request names one action to run against a tool.
type Request struct {
	Tool    string
	Action  toolstatus.Action
	Version string
}

// Client triggers tool actions on the control-panel API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient returns a client with a bounded request timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Do posts the action. The open action is not an API call; use the tool
// URL instead.
func (c *Client) Do(ctx context.Context, req Request) error {
	if c.BaseURL == "" {
		return ErrNoEndpoint
	}
	if req.Action == toolstatus.ActionOpen {
		return fmt.Errorf("%s is not an API action", req.Action)
	}

	payload := map[string]string{}
	if req.Action == toolstatus.ActionDeploy && req.Version != "" {
		payload["version"] = req.Version
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/tools/%s/%s", c.BaseURL, url.PathEscape(req.Tool), req.Action)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Action, req.Tool, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			return fmt.Errorf("%s %s: unexpected status %s", req.Action, req.Tool, resp.Status)
		}
		return fmt.Errorf("%s %s: unexpected status %s: %s", req.Action, req.Tool, resp.Status, text)
	}
	return nil
}

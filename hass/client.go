package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Home Assistant REST API with a long-lived access token.
// It never retries; callers decide what a failure means.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// StatusError is returned when the hub answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HA API error: %s %s: %d", e.Method, e.Path, e.Code)
}

// NewClient builds a client for baseURL. A zero timeout leaves requests unbounded.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		url:   strings.TrimSuffix(baseURL, "/"),
		token: token,
		httpClient: &http.Client{
			Transport: &http.Transport{MaxIdleConns: 5, IdleConnTimeout: 30 * time.Second},
			Timeout:   timeout,
		},
	}
}

// State fetches the current state of one entity.
func (c *Client) State(ctx context.Context, entityID string) (*State, error) {
	path := "/api/states/" + url.PathEscape(entityID)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var s State
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", entityID, err)
	}
	return &s, nil
}

// CallService invokes {domain}.{service} with data as the JSON body.
// The response body is discarded.
func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/api/services/%s/%s", domain, service)
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	return resp, nil
}

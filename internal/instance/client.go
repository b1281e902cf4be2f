// pattern: Imperative Shell
package instance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every request a Client makes.
const DefaultTimeout = 10 * time.Second

// StatusError is a non-2xx reply from the running instance.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("panedit returned status %d: %s", e.Code, e.Message)
}

// Client talks to the remote control API of a running panedit instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client targeting baseURL with DefaultTimeout.
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, DefaultTimeout)
}

// NewClientWithTimeout creates a Client with a custom timeout.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{baseURL: baseURL, httpClient: &http.Client{Timeout: timeout}}
}

// OpenTabRequest is the body of POST /api/tabs.
type OpenTabRequest struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Group string `json:"group,omitempty"`
}

// Health checks that the instance answers.
func (c *Client) Health() error {
	_, err := c.request(http.MethodGet, "/api/health", nil)
	return err
}

// Layout fetches the current pane layout as raw JSON.
func (c *Client) Layout() ([]byte, error) {
	return c.request(http.MethodGet, "/api/layout", nil)
}

// OpenTab asks the instance to open a tab. An empty group targets the active
// pane.
func (c *Client) OpenTab(kind, id, group string) ([]byte, error) {
	return c.request(http.MethodPost, "/api/tabs", OpenTabRequest{Type: kind, ID: id, Group: group})
}

// FocusGroup makes a pane the active pane.
func (c *Client) FocusGroup(id string) ([]byte, error) {
	return c.request(http.MethodPost, "/api/groups/"+url.PathEscape(id)+"/focus", nil)
}

// CloseGroup closes a pane. The last pane is never closed.
func (c *Client) CloseGroup(id string) ([]byte, error) {
	return c.request(http.MethodDelete, "/api/groups/"+url.PathEscape(id), nil)
}

// request sends body, if any, as JSON and returns the reply body. Replies
// outside 2xx become a *StatusError.
func (c *Client) request(method, path string, body any) ([]byte, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to panedit: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Message: extractErrorMessage(data)}
	}
	return data, nil
}

// extractErrorMessage returns the "error" field of a JSON reply, or the raw
// body when there is none.
func extractErrorMessage(body []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return string(bytes.TrimSpace(body))
}

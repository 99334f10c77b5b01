// Package submission posts completed forms to the accounts backend.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expensedesk/internal/config"
	"expensedesk/internal/domain"
	"expensedesk/internal/port"
)

// maxErrorBody caps how much of a failed response is kept as the message.
const maxErrorBody = 4096

// Client submits JSON payloads to a fixed base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a SubmissionClient from cfg.
func NewClient(cfg *config.SubmissionConfig) port.SubmissionClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Submit POSTs payload to path. Any non-2xx answer becomes a
// *domain.SubmissionError carrying the response text, or the status when
// the body is empty.
func (c *Client) Submit(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.SubmissionError{Message: "could not reach the backend"}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = fmt.Sprintf("server responded %d", resp.StatusCode)
		}
		return &domain.SubmissionError{Message: msg}
	}
	return nil
}

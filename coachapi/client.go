package coachapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pwalczak/stride"
)

// Interface compliance check.
var _ stride.Streamer = (*Client)(nil)

// Client implements [stride.Streamer] for the Stride coaching API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new coaching API [Client] with the given bearer token and
// options. An empty token sends unauthenticated requests, which the dev
// simulator accepts.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends a streaming adaptation request to the given endpoint path
// and returns a [stride.FrameStream] over the response.
func (c *Client) Stream(ctx context.Context, endpoint string, req stride.Request) (stride.FrameStream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("coachapi: %w", err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("coachapi: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("coachapi: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("coachapi: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newFrameStream(ctx, resp.Body), nil
}

// AcceptPlan marks the plan proposed on the given thread as accepted.
func (c *Client) AcceptPlan(ctx context.Context, threadID int64) error {
	body, err := json.Marshal(acceptRequest{ThreadID: threadID})
	if err != nil {
		return fmt.Errorf("coachapi: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+acceptPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("coachapi: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("coachapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseHTTPError(resp)
	}
	return nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("coachapi: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("coachapi: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("coachapi: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}

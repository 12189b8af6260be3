package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"instagen/internal/config"
)

// Client issues the three remote operations against the operations
// server and normalizes every failure into an *OpError. It performs no
// retries; retry policy belongs to the workflow layer.
type Client struct {
	baseURL string
	http    *http.Client
}

func New() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithBaseURL(cfg.ServerBaseURL()), nil
}

func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Generation calls are slow by nature; the workflow keeps a
		// single call in flight, so a generous timeout is fine.
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) GenerateMedia(ctx context.Context, req GenerateMediaRequest) (*GenerateMediaResponse, error) {
	var resp GenerateMediaResponse
	if err := c.post(ctx, "/api/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GenerateText(ctx context.Context, req GenerateTextRequest) (*GenerateTextResponse, error) {
	var resp GenerateTextResponse
	if err := c.post(ctx, "/api/generate-text", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Publish(ctx context.Context, req PublishRequest) (*PublishResponse, error) {
	var resp PublishResponse
	if err := c.post(ctx, "/api/publish", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Probe performs the pre-flight capability check against one operation
// path. An empty affirmative response means the operation is reachable.
func (c *Client) Probe(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, c.baseURL+path, nil)
	if err != nil {
		return normalizeTransportError(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return normalizeTransportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeOpError(resp)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, normalizeTransportError(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, normalizeTransportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeOpError(resp)
	}
	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, normalizeTransportError(err)
	}
	return &out, nil
}

func (c *Client) Shutdown(ctx context.Context) error {
	return c.post(ctx, "/shutdown", nil, nil)
}

// EnsureServer health-checks the operations server and spawns it in the
// background when unreachable.
func (c *Client) EnsureServer(ctx context.Context) error {
	if resp, err := c.Health(ctx); err == nil && resp.OK {
		return nil
	}
	if err := StartBackgroundServer(); err != nil {
		return err
	}
	deadline := time.Now().Add(4 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := c.Health(ctx)
		if err == nil && resp.OK {
			return nil
		}
		lastErr = err
		time.Sleep(150 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = errors.New("operations server not healthy after start")
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return normalizeTransportError(err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return normalizeTransportError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return normalizeTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeOpError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A success status with an unreadable body is a transport
		// failure from the caller's point of view.
		return normalizeTransportError(err)
	}
	return nil
}

func decodeOpError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	message := strings.TrimSpace(payload.Error)
	if message == "" {
		message = fmt.Sprintf("server responded with status %d", resp.StatusCode)
	}
	return &OpError{StatusCode: resp.StatusCode, Message: message}
}

func normalizeTransportError(err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Message: "unknown error occurred", cause: err}
}

// OpError is the normalized failure shape for every remote operation:
// application errors, bad statuses, and transport faults all surface as
// a message the workflow can present verbatim.
type OpError struct {
	StatusCode int
	Message    string
	cause      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func AsOpError(err error) *OpError {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr
	}
	return nil
}

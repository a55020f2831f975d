// Package client reads the status API of a running twwatch instance.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnhealthy is returned by Health when the watcher is not running.
var ErrUnhealthy = errors.New("watcher not running")

// Client provides HTTP client functionality to query a twwatch status API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger // Optional logger for client operations
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8089/api",
		Timeout: 10 * time.Second,
	}
}

func New(config Config) *Client {
	def := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		logger:  config.Logger,
		client:  &http.Client{Timeout: config.Timeout},
	}
}

// IsReachable checks if the status API answers.
func (c *Client) IsReachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		c.logger.Debug("Failed to create request for reachability check", "error", err)
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("Status API unreachable", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	ok := resp.StatusCode != http.StatusNotFound
	c.logger.Debug("Status API reachability check", "reachable", ok, "status", resp.StatusCode)
	return ok
}

// Status returns the full watcher status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	err := c.getJSON(ctx, c.baseURL+"/status", &st)
	return st, err
}

// ProcessStatus returns the status of the watch process for input.
func (c *Client) ProcessStatus(ctx context.Context, input string) (ProcessStatus, error) {
	var st ProcessStatus
	err := c.getJSON(ctx, c.baseURL+"/status?input="+url.QueryEscape(input), &st)
	return st, err
}

// Health returns ErrUnhealthy, wrapped with the reported state, unless the
// watcher is running.
func (c *Client) Health(ctx context.Context) error {
	var h Health
	err := c.getJSON(ctx, c.baseURL+"/healthz", &h)
	if err != nil && h.State != "" {
		return fmt.Errorf("%w: %s", ErrUnhealthy, h.State)
	}
	return err
}

// getJSON decodes the response body into out. Non-2xx responses are returned
// as errors after the body has been decoded.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		_ = json.NewDecoder(resp.Body).Decode(out)
		return fmt.Errorf("API error: %s", resp.Status)
	}
	var er ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
		return fmt.Errorf("API error: %s", er.Error)
	}
	return fmt.Errorf("API error: %s", resp.Status)
}

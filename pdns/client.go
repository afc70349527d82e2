package pdns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// apiPrefix is prepended to every endpoint path. The PowerDNS Authoritative
// server serves its management API under /api/v1.
const apiPrefix = "/api/v1"

// Resource is implemented by every API resource proxy. URL reports the
// absolute URL the proxy addresses; computing it never issues a request.
type Resource interface {
	URL() string
}

// Client represents a PowerDNS Authoritative API client. It owns the
// transport that every resource proxy delegates to.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new PowerDNS client. baseURL is the server's webserver
// address without the /api/v1 suffix, for example "http://localhost:8081".
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("powerdns URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("powerdns API key is required")
	}

	baseURL = strings.TrimRight(baseURL, "/")

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  options.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the API root URL, including the /api/v1 prefix.
func (c *Client) BaseURL() string {
	return c.baseURL + apiPrefix
}

// TestConnection verifies the endpoint and API key by listing servers.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.Servers(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}

// doRequest performs one HTTP request against the API and decodes the JSON
// response into out when out is non-nil. Non-2xx responses become *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	requestURL := c.baseURL + apiPrefix + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("PowerDNS API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// doRequestText is doRequest for the few endpoints that answer with plain
// text (zone export) instead of JSON.
func (c *Client) doRequestText(ctx context.Context, method, path string) (string, error) {
	requestURL := c.baseURL + apiPrefix + path

	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newAPIError(resp.StatusCode, respBody)
	}
	return string(respBody), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, params url.Values, body, out interface{}) error {
	return c.doRequest(ctx, http.MethodPut, path, params, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	return c.doRequest(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}

// joinPath appends escaped segments to a parent path. Zone and server IDs
// may contain characters that need escaping ("example.com." is fine, but the
// API does not forbid slashes or spaces in IDs).
func joinPath(parent string, segments ...string) string {
	var b strings.Builder
	b.WriteString(parent)
	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}
	return b.String()
}

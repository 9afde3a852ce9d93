// Package portal provides a client for the e-commerce portal's REST API:
// account registration and the BestBuy integration health check.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/zarlcorp/zprobe/internal/identity"
)

// DefaultBaseURL is the production deployment's API root.
const DefaultBaseURL = "https://ecommerce-portal-production.up.railway.app/api"

const userAgent = "zprobe"

// ErrMissingToken is returned when a successful registration carries no token.
var ErrMissingToken = errors.New("registration response has no token")

// Config holds the portal endpoint.
type Config struct {
	BaseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The default has no timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRequestID sets the X-Request-ID sent with every request.
func WithRequestID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.requestID = id
		}
	}
}

// Client communicates with the portal API.
type Client struct {
	baseURL   string
	requestID string
	http      *http.Client
}

// NewClient creates a portal client. An empty BaseURL uses DefaultBaseURL.
func NewClient(cfg Config, opts ...Option) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	c := &Client{
		baseURL:   strings.TrimRight(base, "/"),
		requestID: uuid.NewString(),
		http:      http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestID returns the identifier attached to this client's requests.
func (c *Client) RequestID() string {
	return c.requestID
}

// Register creates an account for id. Only 201 Created counts as success;
// any other status is returned as *Error carrying the response body.
func (c *Client) Register(ctx context.Context, id identity.Identity) (*Session, error) {
	payload, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("register: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("register: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if status != http.StatusCreated {
		return nil, &Error{StatusCode: status, Body: string(body)}
	}

	var resp registerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("register: unmarshal: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("register: %w", ErrMissingToken)
	}

	return &Session{Token: resp.Token}, nil
}

// CheckBestBuy calls the BestBuy integration health check with token as a
// bearer credential. The body is decoded whatever the status code; the
// outcome is carried by CheckResult.Success.
func (c *Client) CheckBestBuy(ctx context.Context, token string) (*CheckResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bestbuy/test", nil)
	if err != nil {
		return nil, fmt.Errorf("check bestbuy: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	status, body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("check bestbuy: %w", err)
	}

	// fields are read loosely so a mistyped optional field never hides
	// the status and body
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("check bestbuy: unmarshal (status %d): %w", status, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("check bestbuy: response is not an object (status %d)", status)
	}

	res := &CheckResult{
		StatusCode: status,
		Success:    truthy(decodeAny(fields["success"])),
		Platform:   textValue(fields["platform"]),
		APIKey:     textValue(fields["apiKey"]),
		Data:       fields["data"],
		Message:    textValue(fields["message"]),
		Raw:        json.RawMessage(body),
	}
	if t, ok := decodeAny(fields["troubleshooting"]).(map[string]any); ok {
		res.Troubleshooting = t
	}

	return res, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", c.requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// Error is a non-success response from the portal.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if msg := strings.TrimSpace(e.Body); msg != "" {
		return fmt.Sprintf("portal: %s (status %d)", msg, e.StatusCode)
	}
	return fmt.Sprintf("portal: %s (status %d)", http.StatusText(e.StatusCode), e.StatusCode)
}

// json wire types for API responses

type registerResponse struct {
	Token string `json:"token"`
}

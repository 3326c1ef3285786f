// Package upstream is the HTTP client for the WordPress lead API that owns
// every lead, store and statistic shown by the dashboard.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnsuccessful    = errors.New("upstream reported success=false")
	ErrNotFound        = errors.New("upstream resource not found")
	ErrInvalidResponse = errors.New("upstream response is not JSON")
)

// maxBody caps how much of an upstream response is read.
const maxBody = 32 << 20

// Error is a failed upstream call.
type Error struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %s: status %d", e.Endpoint, e.Status)
}

func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 200 && e.Status < 300:
		return ErrUnsuccessful
	}
	return nil
}

// Reason is the upstream's own message, suitable for showing to users.
func (e *Error) Reason() string { return e.Message }

type requestIDKey struct{}

// WithRequestID attaches the inbound request ID so it is forwarded upstream.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiPrefix  string
}

// NewClient targets baseURL (the wp-json root); resource endpoints live
// under apiPrefix.
func NewClient(baseURL, apiPrefix string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiPrefix:  "/" + strings.Trim(apiPrefix, "/"),
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) apiURL(path string, query url.Values) string {
	return c.rawURL(c.apiPrefix+"/"+strings.TrimLeft(path, "/"), query)
}

func (c *Client) rawURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Response is an upstream reply relayed as-is.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

func (c *Client) send(ctx context.Context, method, endpoint, token string, body any) (*Response, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	slog.Debug("upstream call",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"latency_ms", float64(time.Since(start).Microseconds())/1000,
	)

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// Forward relays a request to an API endpoint and returns the upstream reply
// whatever its status. Transport failures and bodies that are not JSON are
// errors.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, token string, body []byte) (*Response, error) {
	resp, err := c.send(ctx, method, c.apiURL(path, query), token, body)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusNoContent && len(resp.Body) == 0 {
		return resp, nil
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrInvalidResponse, method, path, resp.Status)
	}
	return resp, nil
}

// envelope is the success/message part every API response shares.
type envelope struct {
	Success  *bool  `json:"success"`
	Mensagem string `json:"mensagem"`
	Message  string `json:"message"`
	Error    any    `json:"error"`
}

func (e envelope) message() string {
	switch {
	case e.Mensagem != "":
		return e.Mensagem
	case e.Message != "":
		return e.Message
	}
	if s, ok := e.Error.(string); ok {
		return s
	}
	return ""
}

// call performs a request and decodes a successful reply into out.
func (c *Client) call(ctx context.Context, method, name, endpoint, token string, body, out any) error {
	resp, err := c.send(ctx, method, endpoint, token, body)
	if err != nil {
		return err
	}

	var env envelope
	_ = json.Unmarshal(resp.Body, &env)

	if resp.Status < 200 || resp.Status >= 300 {
		return &Error{Endpoint: name, Status: resp.Status, Message: env.message()}
	}
	if env.Success != nil && !*env.Success {
		return &Error{Endpoint: name, Status: resp.Status, Message: env.message()}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", name, err)
	}
	return nil
}

func (c *Client) getAPI(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, c.apiURL(path, query), token, nil, out)
}

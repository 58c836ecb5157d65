// Package client provides an API client for the promotion scheduler backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"promoctl/pkg/status"
)

// APIError is any failed call: an application-level error decoded from the
// response body, or a transport failure (network unreachable, non-JSON body).
type APIError struct {
	Message    string
	StatusCode int // 0 on transport failures
	Transport  bool
}

func (e *APIError) Error() string { return e.Message }

// IsTransport reports whether err is a transport-level APIError.
func IsTransport(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Transport
}

// Client is an HTTP client for the scheduler API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	reporter   *status.Reporter
	log        *logrus.Logger
}

// Option configures the client.
type Option func(*Client)

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithStatusReporter routes every call failure to the shared status surface
// before the error is returned. Callers may add scoped reporting on top, but
// must not assume the shared surface stays silent on error.
func WithStatusReporter(r *status.Reporter) Option {
	return func(c *Client) {
		c.reporter = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Call performs a JSON request against the API and returns the raw response
// body. Non-2xx responses fail with the message from the body's "error" or
// "message" field; transport failures and non-JSON bodies fail with a generic
// message. Every failure is pushed to the shared status surface first.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(&APIError{Message: fmt.Sprintf("encode request: %v", err), Transport: true})
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, c.fail(&APIError{Message: fmt.Sprintf("build request: %v", err), Transport: true})
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.WithFields(logrus.Fields{"method": method, "endpoint": endpoint}).Debug("api call")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("endpoint", endpoint).Error("api transport failure")
		return nil, c.fail(&APIError{Message: "Network error. Check connectivity and backend.", Transport: true})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&APIError{Message: "Network error reading response body.", Transport: true})
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		msg := fmt.Sprintf("Non-JSON response (%d %s).", resp.StatusCode, http.StatusText(resp.StatusCode))
		return nil, c.fail(&APIError{Message: msg, StatusCode: resp.StatusCode, Transport: true})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var fields struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		if json.Unmarshal(data, &fields) == nil {
			if fields.Error != "" {
				msg = fields.Error
			} else if fields.Message != "" {
				msg = fields.Message
			}
		}
		c.log.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Warn(msg)
		return nil, c.fail(&APIError{Message: msg, StatusCode: resp.StatusCode})
	}

	return json.RawMessage(data), nil
}

// fail reports the error on the shared surface and returns it.
func (c *Client) fail(apiErr *APIError) error {
	if c.reporter != nil {
		prefix := "API Error: "
		if apiErr.Transport {
			prefix = "Error: "
		}
		c.reporter.Persistent(status.AreaMain, prefix+apiErr.Message, status.LevelDanger)
	}
	return apiErr
}

// get decodes a GET response into out.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	raw, err := c.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.decode(raw, out)
}

// do performs a mutating call and decodes the response into out.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	raw, err := c.Call(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return c.decode(raw, out)
}

func (c *Client) decode(raw json.RawMessage, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return c.fail(&APIError{Message: "Malformed response from backend.", Transport: true})
	}
	return nil
}

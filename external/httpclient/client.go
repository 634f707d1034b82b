// Package httpclient is the outbound HTTP client shared by every external
// service adapter: fixed per-request timeout, bounded retries with a constant
// delay, JSON helpers.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	maxErrorBodyBytes = 512
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
	Header     http.Header
	// Transport overrides the default transport, mainly for tests.
	Transport http.RoundTripper
}

type Client struct {
	baseURL  string
	http     *http.Client
	attempts int
	delay    time.Duration
	header   http.Header
}

// Request describes one call. JSON is encoded as the body unless Body is set.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	JSON        any
	Body        []byte
	ContentType string
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		attempts: opts.Attempts,
		delay:    opts.RetryDelay,
		header:   opts.Header.Clone(),
	}
}

// Do sends req and returns the response body. Transport errors, 429 and 5xx
// responses are retried up to the configured attempt count.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var respBody []byte
	backoff := retry.WithMaxRetries(uint64(c.attempts-1), retry.NewConstant(c.delay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := c.once(ctx, req, target, body, contentType)
		if err != nil {
			if retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		respBody = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return respBody, nil
}

// DoJSON sends req and decodes a JSON response into out when out is non-nil.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	b, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) once(ctx context.Context, req Request, target string, body []byte, contentType string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !isHTTPSuccessStatus(resp.StatusCode) {
		snippet := string(b)
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		return nil, &StatusError{Method: req.Method, URL: target, StatusCode: resp.StatusCode, Body: strings.TrimSpace(snippet)}
	}
	return b, nil
}

func encodeBody(req Request) ([]byte, string, error) {
	if req.Body != nil {
		return req.Body, req.ContentType, nil
	}
	if req.JSON == nil {
		return nil, req.ContentType, nil
	}
	b, err := json.Marshal(req.JSON)
	if err != nil {
		return nil, "", fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return b, contentType, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return true
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

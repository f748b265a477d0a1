// Package httpclient drives requests against the API under validation. It
// owns base-URL resolution, default headers, timeouts, and bounded retries
// so the engine deals only in endpoint descriptors.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ziadkadry99/apivet/internal/config"
)

// maxBodyBytes caps how much of a response body is read. Anything beyond
// this is discarded; validation on a multi-megabyte body is not useful.
const maxBodyBytes = 10 << 20

// Client makes requests against a single API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	maxRetries int
}

// Request describes one call to an endpoint.
type Request struct {
	Method     string
	Path       string
	PathParams map[string]string
	Query      map[string]string
	Headers    map[string]string
	JSONBody   any
}

// Response is the captured outcome of a request.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
	FinalURL   string
}

// New creates a Client for the given base URL using the HTTP settings from
// config. Default headers are sent on every request.
func New(baseURL string, cfg config.HTTPConfig, headers map[string]string) *Client {
	dialer := &net.Dialer{
		Timeout: time.Duration(cfg.ConnectTimeoutSec) * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   time.Duration(cfg.ConnectTimeoutSec) * time.Second,
		ResponseHeaderTimeout: time.Duration(cfg.ReadTimeoutSec) * time.Second,
	}
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.ConnectTimeoutSec+cfg.ReadTimeoutSec) * time.Second,
		},
		headers:    headers,
		maxRetries: cfg.MaxRetries,
	}
}

// BaseURL returns the base URL the client resolves paths against.
func (c *Client) BaseURL() string { return c.baseURL }

// Do executes the request, retrying transient failures up to the configured
// retry budget with exponential backoff.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	backoff := 250 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err := c.doOnce(ctx, req)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}
		// Transient server error; keep the response in case retries run out.
		lastErr = fmt.Errorf("server returned %s", resp.Status)
		if attempt == c.maxRetries {
			return resp, nil
		}
	}

	return nil, fmt.Errorf("request %s %s: %w", req.Method, req.Path, lastErr)
}

func (c *Client) doOnce(ctx context.Context, req Request) (*Response, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.JSONBody != nil {
		data, err := json.Marshal(req.JSONBody)
		if err != nil {
			return nil, fmt.Errorf("marshalling request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.JSONBody != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       data,
		Duration:   time.Since(start),
		FinalURL:   fullURL,
	}, nil
}

// buildURL joins the base URL with the request path after path-parameter
// substitution and appends query parameters.
func (c *Client) buildURL(req Request) (string, error) {
	path := SubstitutePathParams(req.Path, req.PathParams)
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("building url for %s: %w", req.Path, err)
	}

	if len(req.Query) > 0 {
		q := u.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// SubstitutePathParams replaces {name} placeholders in an OpenAPI path with
// concrete values. Placeholders without a value are left alone.
func SubstitutePathParams(path string, params map[string]string) string {
	for name, value := range params {
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}
	return path
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	ct := strings.ToLower(r.Headers.Get("Content-Type"))
	return strings.Contains(ct, "application/json") || strings.HasSuffix(strings.SplitN(ct, ";", 2)[0], "/json")
}

// retryableStatus reports whether a status code is worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

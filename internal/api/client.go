// Package api provides the HTTP client for the storefront API.
//
// Two request profiles share one base URL: the session profile forwards
// cookies on every call (admin/dashboard surface), and the bearer profile
// attaches the stored customer token on each call (storefront surface).
// Neither profile retries, backs off, or deduplicates requests; redundant
// fetches are avoided only by the store layer's condition predicates.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const (
	sessionTimeout = 30 * time.Second
	bearerTimeout  = 10 * time.Second
)

// TokenSource supplies the bearer token for customer-surface calls.
type TokenSource interface {
	Token() string
}

// Client is the HTTP client for the storefront API.
type Client struct {
	baseURL string
	session *http.Client
	bearer  *http.Client
	tokens  TokenSource
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the transport on both profiles (tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.session.Transport = rt
		c.bearer.Transport = rt
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for the given base URL. tokens may be nil
// when the customer surface is unused.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: &http.Client{Timeout: sessionTimeout, Jar: jar},
		bearer:  &http.Client{Timeout: bearerTimeout},
		tokens:  tokens,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetLogger replaces the diagnostic logger after construction.
func (c *Client) SetLogger(log *slog.Logger) {
	c.log = log
}

// Response wraps an API response body.
type Response struct {
	Data       []byte
	StatusCode int
	Header     http.Header
}

// UnmarshalData unmarshals the response body into v.
func (r *Response) UnmarshalData(v any) error {
	return json.Unmarshal(r.Data, v)
}

// Profile is one of the two request profiles.
type Profile struct {
	c      *Client
	bearer bool
}

// Session returns the cookie-forwarding profile.
func (c *Client) Session() *Profile {
	return &Profile{c: c}
}

// Customer returns the bearer-token profile.
func (c *Client) Customer() *Profile {
	return &Profile{c: c, bearer: true}
}

// Get performs a GET request.
func (p *Profile) Get(ctx context.Context, path string) (*Response, error) {
	return p.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (p *Profile) Post(ctx context.Context, path string, body any) (*Response, error) {
	return p.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (p *Profile) Put(ctx context.Context, path string, body any) (*Response, error) {
	return p.do(ctx, http.MethodPut, path, body)
}

// Patch performs a PATCH request with a JSON body.
func (p *Profile) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return p.do(ctx, http.MethodPatch, path, body)
}

// Delete performs a DELETE request.
func (p *Profile) Delete(ctx context.Context, path string) (*Response, error) {
	return p.do(ctx, http.MethodDelete, path, nil)
}

func (p *Profile) do(ctx context.Context, method, path string, body any) (*Response, error) {
	url := p.c.buildURL(path)

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := p.c.session
	if p.bearer {
		httpClient = p.c.bearer
		if p.c.tokens != nil {
			if tok := p.c.tokens.Token(); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
		}
	}

	p.c.log.Debug("api request", "method", method, "url", url)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	p.c.log.Debug("api response", "method", method, "url", url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, respBody)
	}

	return &Response{
		Data:       respBody,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}, nil
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Package backend is the thin HTTP client for the content backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rpupo63/realestate-site/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const maxErrorBody = 4 << 10

type Client struct {
	baseURL      string
	httpClient   *http.Client
	serviceToken oauth2.TokenSource
	logger       zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithServiceToken sets the token sent when the request context carries no user token.
func WithServiceToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.serviceToken = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log.With().Str("component", "backendClient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenKey struct{}

// WithToken attaches the signed-in user's access token to ctx. Requests made with that
// context authenticate as the user instead of the service.
func WithToken(ctx context.Context, accessToken string) context.Context {
	if accessToken == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))
}

func (c *Client) tokenSource(ctx context.Context) oauth2.TokenSource {
	if ts, ok := ctx.Value(tokenKey{}).(oauth2.TokenSource); ok {
		return ts
	}
	return c.serviceToken
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", path, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if ts := c.tokenSource(ctx); ts != nil {
		token, err := ts.Token()
		if err != nil {
			return errs.NewUnauthorizedError(err.Error())
		}
		token.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.NewServiceUnreachableError("backend API", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode == http.StatusUnauthorized {
		return errs.NewUnauthorizedError(fmt.Sprintf("%s %s rejected the credentials", method, path))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errs.NewUpstreamError(method, resp.StatusCode, path, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewServiceUnreachableError("backend API", err)
	}
	return decode(path, raw, out)
}

// decode unwraps {"data": ...} when present and falls back to the bare payload.
// A null data leaves out untouched.
func decode(path string, raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			if data, ok := fields["data"]; ok {
				data = bytes.TrimSpace(data)
				if len(data) == 0 || bytes.Equal(data, []byte("null")) {
					return nil
				}
				if err := json.Unmarshal(data, out); err != nil {
					return errs.NewUpstreamDecodeError(path, err)
				}
				return nil
			}
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return errs.NewUpstreamDecodeError(path, err)
	}
	return nil
}

// Package client is the Go client of the HotLunchHub API. It wraps the REST
// resources and the two user-lifecycle functions, resolves the signed-in
// user and watches backend reachability.
package client

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

	"hotlunchhub/pkg/logger"
)

var ErrNoToken = errors.New("client: no session token")

// APIError is a non-2xx REST response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// TokenSource returns the access token of the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	log        logger.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of the client that sends token on every call.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.tokens = StaticToken(token)
	return &clone
}

func (c *Client) Companies() *CompaniesAPI {
	return &CompaniesAPI{c: c}
}

func (c *Client) Meals() *MealsAPI {
	return &MealsAPI{c: c}
}

func (c *Client) Orders() *OrdersAPI {
	return &OrdersAPI{c: c}
}

func (c *Client) Records(role string) *RecordsAPI {
	return &RecordsAPI{c: c, role: role}
}

func (c *Client) Profiles() *ProfilesAPI {
	return &ProfilesAPI{c: c}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, authorized bool) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")

	if authorized {
		if c.tokens == nil {
			return nil, ErrNoToken
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// doJSON sends payload as JSON and decodes a 2xx body into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, query, body, true)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		c.log.Debug("client: request failed", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
		return err
	}
	return decodeResponse(resp, out)
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func decodeResponse(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

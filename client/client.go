// Package client is a Go SDK for the recipe blog API. Besides the resource
// calls it implements identity.Provider and authstate.ProfileStore, so a
// command line tool can run the same auth manager and route guard as the
// server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"recipe-blog-cms/identity"
	"recipe-blog-cms/models"
)

const apiPrefix = "/api/v1"

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.RWMutex
	session   *identity.Session
	listeners identity.Listeners
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

func (e envelope) message() string {
	var text string
	if err := json.Unmarshal(e.CodeMessage, &text); err == nil {
		return text
	}
	var fields map[string][]string
	if err := json.Unmarshal(e.CodeMessage, &fields); err == nil {
		for field, msgs := range fields {
			if len(msgs) > 0 {
				return field + ": " + msgs[0]
			}
		}
	}
	return http.StatusText(e.Code)
}

// asError turns an error envelope back into the typed error the server
// started from.
func (e envelope) asError(status int) error {
	msg := e.message()
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return models.ErrorValidation{Message: msg}
	case http.StatusUnauthorized:
		return models.ErrorUnauthorized{Message: msg}
	case http.StatusForbidden:
		return models.ErrorForbidden{Message: msg}
	case http.StatusNotFound:
		return models.ErrorNotFound{Resource: strings.TrimSuffix(msg, " not found")}
	case http.StatusConflict:
		return models.ErrorConflict{Message: msg}
	default:
		return models.NewBackendError(msg, fmt.Errorf("status %d", status))
	}
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	_, err := c.doEnvelope(ctx, method, path, query, body, out)
	return err
}

func (c *Client) doEnvelope(ctx context.Context, method, path string, query url.Values, body, out interface{}) (*envelope, error) {
	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewBackendError("request failed", err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, models.NewBackendError("invalid response", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		c.logger.Debug("api error", "method", method, "path", path, "status", res.StatusCode, "code_type", env.CodeType)
		return &env, env.asError(res.StatusCode)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &env, models.NewBackendError("invalid response data", err)
		}
	}
	return &env, nil
}

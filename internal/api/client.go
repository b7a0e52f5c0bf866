// Package api is the client of the remote storefront REST API: goods,
// autocomplete and orders.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/safar/go-storefront/internal/config"
	"go.uber.org/zap"
)

const apiKeyParam = "api_key"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *zap.Logger
}

func NewClient(cfg config.APIConfig, log *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		log:        log.Named("api"),
	}, nil
}

// Request performs a single call against the API. An empty method means GET.
// The response body is always decoded as JSON; out may be nil to discard it.
// Every failure is returned as *RequestError.
func (c *Client) Request(ctx context.Context, method, path string, body, out interface{}) error {
	if method == "" {
		method = http.MethodGet
	}

	fail := func(status int, msg string, cause error) error {
		reqErr := &RequestError{Method: method, Path: path, StatusCode: status, Message: msg, Err: cause}
		c.log.Error("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("message", msg),
			zap.Error(cause))
		return reqErr
	}

	u, err := c.buildURL(path)
	if err != nil {
		return fail(0, "invalid request path", err)
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fail(0, "encode request body", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fail(0, "create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err.Error(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "read response body", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fail(resp.StatusCode, "invalid JSON response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := DefaultErrorMessage
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return fail(resp.StatusCode, msg, nil)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fail(resp.StatusCode, "unexpected response shape", err)
		}
	}

	c.log.Debug("API request", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
	return nil
}

func (c *Client) buildURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(apiKeyParam, c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

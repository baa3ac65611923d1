package vkapi

import (
	"cmp"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultHost = "https://api.vk.com"

// ErrMalformedResponse is returned when a response envelope decodes but its
// payload does not have the shape the caller asked for.
var ErrMalformedResponse = errors.New("malformed VK API response")

type Options struct {
	Host      string
	Token     string
	Version   string
	VerifySSL bool
	Timeout   time.Duration
	UserAgent string
}

// Client issues authenticated GET requests against the VK API.
type Client struct {
	http    *resty.Client
	token   string
	version string
}

type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("VK API error %d: %s", e.Code, e.Message)
}

type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *APIError       `json:"error"`
}

func NewClient(opts Options) *Client {
	host := strings.TrimRight(cmp.Or(opts.Host, DefaultHost), "/")

	client := resty.New()
	client.SetBaseURL(host)
	// Relaxed verification is a configurable allowance for local setups
	// without a CA bundle.
	client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: !opts.VerifySSL})
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		http:    client,
		token:   opts.Token,
		version: opts.Version,
	}
}

// Get calls an API method and returns the raw `response` payload. A missing
// payload (an error envelope included) yields nil data and a nil error.
func (c *Client) Get(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("access_token", c.token)
	query.Set("v", c.version)
	for key, values := range params {
		query[key] = values
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get("/method/" + method)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	if res.IsError() {
		return nil, fmt.Errorf("HTTP error calling %s: %s", method, res.Status())
	}

	var env envelope
	if err := json.Unmarshal(res.Body(), &env); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if env.Error != nil {
		slog.Debug("VK API returned an error envelope", "method", method, "code", env.Error.Code, "message", env.Error.Message)
	}

	if len(env.Response) == 0 || string(env.Response) == "null" {
		return nil, nil
	}

	return env.Response, nil
}

// getInto decodes the response payload into dst. It reports false when the
// API returned no data.
func (c *Client) getInto(ctx context.Context, method string, params url.Values, dst any) (bool, error) {
	raw, err := c.Get(ctx, method, params)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, method, err)
	}

	return true, nil
}

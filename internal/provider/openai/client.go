// Package openai posts raw Open Responses requests through the OpenAI SDK
// request pipeline. It is used for endpoints that authenticate with a
// bearer token.
package openai

import (
	"context"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client sends pre-encoded request bodies to an absolute endpoint URL.
// It never reads the process environment; authentication comes from the
// headers passed to Post.
type Client struct {
	client     openai.Client
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a transport client. SDK-level retries are disabled; retry
// policy belongs to the caller.
func New(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends body to url and returns the raw response body of a 2xx response.
// Non-2xx responses and network failures are returned as *ai.TransportError.
func (c *Client) Post(ctx context.Context, url string, header http.Header, body []byte) ([]byte, error) {
	var (
		raw      []byte
		httpResp *http.Response
	)

	opts := []option.RequestOption{
		option.WithBaseURL(url),
		option.WithMaxRetries(0),
		option.WithResponseInto(&httpResp),
		option.WithHeader("Content-Type", "application/json"),
	}
	if c.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(c.httpClient))
	}
	for name := range header {
		opts = append(opts, option.WithHeader(name, header.Get(name)))
	}

	// An absolute path resolves to itself against the base URL.
	if err := c.client.Post(ctx, url, body, &raw, opts...); err != nil {
		return nil, wrapError(err, httpResp)
	}
	return raw, nil
}

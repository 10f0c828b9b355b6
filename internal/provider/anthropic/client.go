package anthropic

import (
	"context"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client sends pre-encoded request bodies to an absolute endpoint URL.
type Client struct {
	client     anthropic.Client
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

// New creates a transport client with SDK retries disabled.
func New(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends body to url and returns the raw body of a 2xx response.
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

	if err := c.client.Post(ctx, url, body, &raw, opts...); err != nil {
		return nil, wrapError(err, httpResp)
	}
	return raw, nil
}

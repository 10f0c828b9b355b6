package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/provider"
	"github.com/spetersoncode/openresponses/retry"
)

// VersionHeader names the protocol version header sent with every request.
const VersionHeader = "OpenResponses-Version"

// Option configures a Client.
type Option func(*Client)

// WithRegistry sets the registry used to resolve provider names.
// Defaults to provider.DefaultRegistry().
func WithRegistry(reg *provider.Registry) Option {
	return func(c *Client) {
		c.registry = reg
	}
}

// WithHTTPClient sets the HTTP client used by the SDK transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransport replaces the SDK transport selected from the endpoint.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithRetry enables retries of transient failures.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) {
		c.retryConfig = cfg
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEvents sets a channel for receiving request events.
func WithEvents(ch chan<- Event) Option {
	return func(c *Client) {
		c.events = ch
	}
}

// WithDefaultOptions sets request options applied before per-call options.
func WithDefaultOptions(opts ...ai.Option) Option {
	return func(c *Client) {
		c.defaults = append(c.defaults, opts...)
	}
}

// Client sends requests to a single resolved endpoint. It is safe for
// concurrent use; it holds no per-request state.
type Client struct {
	endpoint    provider.Endpoint
	apiKey      string
	model       string
	timeout     time.Duration
	defaults    []ai.Option
	registry    *provider.Registry
	httpClient  *http.Client
	transport   Transport
	retryConfig retry.Config
	logger      *slog.Logger
	events      chan<- Event
}

// New validates cfg, resolves its endpoint and returns a Client.
// Configuration problems, including an unknown provider, are returned as
// *ai.ConfigError.
func New(cfg ai.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	c := newClient(cfg.APIKey, cfg.Model, opts)
	if c.registry == nil {
		c.registry = provider.DefaultRegistry()
	}

	ep, err := provider.ResolveConfig(cfg, c.registry)
	if err != nil {
		return nil, err
	}
	c.endpoint = ep
	c.timeout = cfg.Timeout
	c.defaults = slices.Concat(cfg.RequestOptions(), c.defaults)
	c.init()

	c.logger.Debug("client resolved endpoint",
		"endpoint", ep.Name,
		"url", ep.URL,
		"model", cfg.Model,
		"routing", string(cfg.Routing))
	return c, nil
}

// NewWithEndpoint returns a Client for an explicit endpoint, bypassing
// provider resolution.
func NewWithEndpoint(ep provider.Endpoint, apiKey, model string, opts ...Option) (*Client, error) {
	switch {
	case ep.URL == "":
		return nil, &ai.ConfigError{Field: "endpoint", Msg: "url required"}
	case apiKey == "":
		return nil, &ai.ConfigError{Field: "api_key", Msg: "required"}
	case model == "":
		return nil, &ai.ConfigError{Field: "model", Msg: "required"}
	}

	c := newClient(apiKey, model, opts)
	c.endpoint = ep
	c.init()
	return c, nil
}

func newClient(apiKey, model string, opts []Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		model:       model,
		retryConfig: retry.Disabled(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) init() {
	if c.transport == nil {
		c.transport = newTransport(c.endpoint.TransportOrDefault(), c.httpClient)
	}
}

// Endpoint returns the resolved endpoint.
func (c *Client) Endpoint() provider.Endpoint {
	return c.endpoint
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Send builds a request for input and sends it. Per-call options override
// the client's defaults.
func (c *Client) Send(ctx context.Context, input ai.Input, opts ...ai.Option) (*ai.Response, error) {
	o := ai.ApplyOptions(slices.Concat(c.defaults, opts)...)
	req, err := ai.BuildRequest(c.model, input, o)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, o.EffectiveTimeout())
}

// Create sends a pre-built request. An empty model is filled from the client.
func (c *Client) Create(ctx context.Context, req *ai.Request) (*ai.Response, error) {
	if req.Model == "" {
		r := *req
		r.Model = c.model
		req = &r
	}
	if req.Input.IsEmpty() {
		return nil, ai.ErrEmptyInput
	}

	timeout := c.timeout
	if timeout <= 0 {
		timeout = ai.DefaultTimeout
		if req.HasTools() {
			timeout = ai.DefaultToolTimeout
		}
	}
	return c.send(ctx, req, timeout)
}

func (c *Client) send(ctx context.Context, req *ai.Request, timeout time.Duration) (*ai.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ai.ConfigError{Field: "request", Msg: "encode failed", Err: err}
	}

	header := c.headers()
	start := time.Now()
	emit(c.events, Event{Type: EventRequestStart, Endpoint: c.endpoint.Name, Model: req.Model})
	c.logger.Debug("sending request",
		"endpoint", c.endpoint.Name,
		"model", req.Model,
		"tools", len(req.Tools),
		"bytes", len(body))

	var retryEvents chan retry.Event
	done := make(chan struct{})
	if c.events != nil {
		retryEvents = make(chan retry.Event, 10)
		go c.forwardRetryEvents(retryEvents, req.Model, done)
	} else {
		close(done)
	}

	resp, err := retry.DoWithEvents(ctx, c.retryConfig, retryEvents, func() (*ai.Response, error) {
		return c.roundTrip(ctx, header, body, timeout)
	})

	if retryEvents != nil {
		close(retryEvents)
	}
	<-done

	if err != nil {
		c.logger.Debug("request failed",
			"endpoint", c.endpoint.Name,
			"status", ai.StatusCodeOf(err),
			"error", err)
		emit(c.events, Event{
			Type:     EventRequestError,
			Endpoint: c.endpoint.Name,
			Model:    req.Model,
			Duration: time.Since(start),
			Error:    err,
		})
		return nil, err
	}

	c.logger.Debug("received response",
		"endpoint", c.endpoint.Name,
		"id", resp.ID,
		"items", len(resp.Output),
		"duration", time.Since(start))
	emit(c.events, Event{
		Type:     EventRequestComplete,
		Endpoint: c.endpoint.Name,
		Model:    req.Model,
		Duration: time.Since(start),
		Usage:    resp.Usage,
	})
	return resp, nil
}

// roundTrip performs one bounded HTTP exchange and decodes its body.
func (c *Client) roundTrip(ctx context.Context, header http.Header, body []byte, timeout time.Duration) (*ai.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := c.transport.Post(ctx, c.endpoint.URL, header, body)
	if err != nil {
		return nil, err
	}
	return ai.DecodeResponse(raw)
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	name, value := c.endpoint.AuthHeader(c.apiKey)
	h.Set(name, value)
	h.Set(VersionHeader, "latest")
	return h
}

// forwardRetryEvents converts retry events to client events until ch closes.
func (c *Client) forwardRetryEvents(ch <-chan retry.Event, model string, done chan<- struct{}) {
	defer close(done)
	for ev := range ch {
		emit(c.events, Event{
			Type:       EventRetry,
			Endpoint:   c.endpoint.Name,
			Model:      model,
			RetryEvent: &ev,
		})
	}
}

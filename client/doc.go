// Package client sends Open Responses requests to a resolved provider endpoint.
//
// A Client is built from an [ai.Config]. The provider endpoint is resolved
// once, at construction, using the routing mode the config names:
//
//	c, err := client.New(ai.Config{
//	    Provider: ai.ProviderHuggingFace,
//	    APIKey:   token,
//	    Model:    "moonshotai/Kimi-K2-Instruct-0905",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Send(ctx, ai.TextInput("Explain recursion in one sentence."))
//
// # Errors
//
// Send returns *ai.TransportError when the HTTP exchange fails or returns a
// non-2xx status, and *ai.DecodeError when a 2xx body is not a valid
// response. The raw body is always kept on TransportError.
//
// # Retries
//
// Requests are sent once unless [WithRetry] is given. When enabled, only
// transient failures (429, 5xx, network errors) are retried:
//
//	c, err := client.New(cfg, client.WithRetry(retry.DefaultConfig()))
//
// # Events
//
// Pass a channel with [WithEvents] to observe requests. Events are sent
// non-blocking; if the channel is full, events are dropped.
package client

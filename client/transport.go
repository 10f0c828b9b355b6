package client

import (
	"context"
	"net/http"

	"github.com/spetersoncode/openresponses/internal/provider/anthropic"
	"github.com/spetersoncode/openresponses/internal/provider/openai"
	"github.com/spetersoncode/openresponses/provider"
)

// Transport posts an encoded request body and returns the raw body of a
// successful response. Failures must be reported as *ai.TransportError.
type Transport interface {
	Post(ctx context.Context, url string, header http.Header, body []byte) ([]byte, error)
}

// newTransport returns the SDK-backed transport for the endpoint's kind.
func newTransport(kind provider.TransportKind, hc *http.Client) Transport {
	switch kind {
	case provider.TransportAnthropic:
		var opts []anthropic.ClientOption
		if hc != nil {
			opts = append(opts, anthropic.WithHTTPClient(hc))
		}
		return anthropic.New(opts...)
	default:
		var opts []openai.ClientOption
		if hc != nil {
			opts = append(opts, openai.WithHTTPClient(hc))
		}
		return openai.New(opts...)
	}
}

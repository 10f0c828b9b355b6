package openai

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/openresponses"
)

// wrapError converts an SDK error into *ai.TransportError.
// The SDK restores the body of an error response, so it is read back from
// resp; the body is kept even when it is not an OpenAI error envelope.
func wrapError(err error, resp *http.Response) error {
	if err == nil {
		return nil
	}

	if resp != nil && resp.StatusCode >= 400 {
		var body []byte
		if resp.Body != nil {
			body, _ = io.ReadAll(resp.Body)
		}
		return ai.NewTransportError(resp.StatusCode, body, parseRetryAfter(resp), err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return ai.NewTransportError(apiErr.StatusCode, []byte(apiErr.RawJSON()), parseRetryAfter(apiErr.Response), err)
	}

	// Network failure, cancellation or timeout: no response was received.
	return &ai.TransportError{Err: err}
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	// Try parsing as seconds (most common)
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// Try parsing as HTTP-date (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}

package anthropic

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/openresponses"
)

// wrapError converts an SDK error into *ai.TransportError, keeping the raw
// response body of error responses.
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

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return ai.NewTransportError(apiErr.StatusCode, []byte(apiErr.RawJSON()), parseRetryAfter(apiErr.Response), err)
	}

	return &ai.TransportError{Err: err}
}

// parseRetryAfter reads Retry-After as seconds or an HTTP date.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}

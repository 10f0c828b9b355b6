package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ai "github.com/spetersoncode/openresponses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Post(t *testing.T) {
	var (
		gotBody   []byte
		gotHeader http.Header
		gotPath   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeader = r.Header.Clone()
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"resp_1","model":"m","output":[]}`))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer sk-test")
	header.Set("OpenResponses-Version", "latest")

	c := New(WithHTTPClient(srv.Client()))
	raw, err := c.Post(context.Background(), srv.URL+"/v1/responses", header, []byte(`{"model":"m","input":"hi"}`))
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"resp_1","model":"m","output":[]}`, string(raw))
	assert.JSONEq(t, `{"model":"m","input":"hi"}`, string(gotBody))
	assert.Equal(t, "/v1/responses", gotPath)
	assert.Equal(t, "Bearer sk-test", gotHeader.Get("Authorization"))
	assert.Equal(t, "latest", gotHeader.Get("OpenResponses-Version"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
}

func TestClient_Post_ErrorStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c := New(WithHTTPClient(srv.Client()))
	_, err := c.Post(context.Background(), srv.URL, nil, []byte(`{}`))
	require.Error(t, err)

	var te *ai.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusTooManyRequests, te.Status)
	assert.Equal(t, `{"error":{"message":"slow down"}}`, te.Body)
	assert.Equal(t, "slow down", te.Message)
	assert.Equal(t, 7*time.Second, te.RetryDelay)
	assert.True(t, ai.IsTransient(err))
	assert.Equal(t, 1, calls, "SDK retries must be disabled")
}

func TestClient_Post_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid token"))
	}))
	defer srv.Close()

	_, err := New(WithHTTPClient(srv.Client())).Post(context.Background(), srv.URL, nil, []byte(`{}`))

	var te *ai.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusUnauthorized, te.Status)
	assert.Equal(t, "invalid token", te.Body)
	assert.True(t, ai.IsPermanent(err))
}

func TestClient_Post_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(WithHTTPClient(srv.Client())).Post(ctx, srv.URL, nil, []byte(`{}`))
	var te *ai.TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.Status)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Zero(t, parseRetryAfter(nil))
	assert.Zero(t, parseRetryAfter(resp))

	resp.Header.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, parseRetryAfter(resp))

	resp.Header.Set("Retry-After", "soon")
	assert.Zero(t, parseRetryAfter(resp))
}

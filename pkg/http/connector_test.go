package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDoRequest_JSONRoundTrip(t *testing.T) {
	var gotAuth, gotHeader, gotType string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotHeader = r.Header.Get("X-Request-ID")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL, Logger: zap.NewNop()}, WithAuthToken("secret"), WithRequestLogging())

	var resp struct {
		OK bool `json:"ok"`
	}
	err := c.DoRequest(context.Background(), http.MethodPost, "/hook", map[string]string{"a": "b"}, &resp, WithHeader("X-Request-ID", "req-1"))
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "req-1", gotHeader)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, map[string]string{"a": "b"}, gotBody)
}

func TestDoRequest_OverrideURLAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/other", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: "http://unused.invalid"})
	err := c.DoRequest(context.Background(), http.MethodPost, "/ignored", nil, nil, WithURL(srv.URL+"/other"))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, "upstream down", httpErr.Message)
	assert.True(t, IsRetryable(err))
}

func TestDoRequest_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewConnector(&ConnectorConfig{})
	err := c.DoRequest(context.Background(), http.MethodGet, "", nil, nil, WithURL(url))

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, IsRetryable(err))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&HTTPError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: http.StatusServiceUnavailable}))
	assert.False(t, IsRetryable(&HTTPError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsRetryable(&NetworkError{Err: context.Canceled}))
	assert.False(t, IsRetryable(errors.New("boom")))
}

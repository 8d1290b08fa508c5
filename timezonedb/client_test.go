package timezonedb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_FetchZoneList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2.1/list-time-zone", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","message":"","zones":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/v2.1", "secret", time.Second, zap.NewNop())
	resp, err := client.FetchZoneList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"status":"OK","message":"","zones":[]}`, string(resp.Body))
}

func TestClient_FetchZoneDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-time-zone", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "zone", q.Get("by"))
		assert.Equal(t, "America/Chicago", q.Get("zone"))
		assert.Equal(t, "secret", q.Get("key"))
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "secret", 0, nil)
	resp, err := client.FetchZoneDetails(context.Background(), "America/Chicago")
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestClient_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"FAILED","message":"Invalid API key."}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "bad", time.Second, nil).FetchZoneList(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Bad Request", resp.Reason)
	assert.Equal(t, "400 Bad Request: Invalid API key.", resp.FailureReason())
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	resp, err := NewClient(url, "k", time.Second, nil).FetchZoneList(context.Background())
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, "k", time.Second, nil).FetchZoneList(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestResponse_OK(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
		want bool
	}{
		{name: "nil", resp: nil, want: false},
		{name: "ok", resp: &Response{StatusCode: 200, Body: []byte(`{"status":"OK"}`)}, want: true},
		{name: "failed status in 200", resp: &Response{StatusCode: 200, Body: []byte(`{"status":"FAILED","message":"Rate limit"}`)}, want: false},
		{name: "non json 200", resp: &Response{StatusCode: 200, Body: []byte(`<xml/>`)}, want: true},
		{name: "server error", resp: &Response{StatusCode: 503, Body: []byte(`{"status":"OK"}`)}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.OK())
		})
	}
}

func TestResponse_FailureReason(t *testing.T) {
	html := &Response{
		StatusCode:  502,
		Reason:      "Bad Gateway",
		ContentType: "text/html; charset=utf-8",
		Body:        []byte("<html><head><title>502   Bad\n Gateway</title></head><body><h1>nginx</h1></body></html>"),
	}
	assert.Equal(t, "502 Bad Gateway: 502 Bad Gateway", html.FailureReason())

	noTitle := &Response{StatusCode: 500, Reason: "Internal Server Error", Body: []byte("<html><body><h1>Upstream down</h1></body></html>")}
	assert.Equal(t, "500 Internal Server Error: Upstream down", noTitle.FailureReason())

	empty := &Response{StatusCode: 429}
	assert.Equal(t, "429 Too Many Requests", empty.FailureReason())

	var missing *Response
	assert.Equal(t, "no response", missing.FailureReason())
}

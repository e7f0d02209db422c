package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rider/internal/config"
	"rider/internal/rider-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_GoogleClient_ForwardsEscapedInput(t *testing.T) {
	var gotInput, gotKey string
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotInput = r.URL.Query().Get("input")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[],"status":"ZERO_RESULTS"}`))
	}))
	defer srv.Close()

	g := NewGoogleClient(&config.Placesconfig{BaseURL: srv.URL, APIKey: "k3y", Timeout: time.Second}, nil)

	raw, err := g.Autocomplete(context.Background(), "Park St & 5th #2")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "Park St & 5th #2", gotInput)
	assert.Equal(t, "k3y", gotKey)
	assert.JSONEq(t, `{"predictions":[],"status":"ZERO_RESULTS"}`, string(raw))
}

func TestUnit_GoogleClient_StatusIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGoogleClient(&config.Placesconfig{BaseURL: srv.URL, Timeout: time.Second}, nil)

	_, err := g.Autocomplete(context.Background(), "Park")
	var statusErr *myerrors.UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Status)
	assert.ErrorIs(t, err, myerrors.ErrUpstreamUnavailable)
}

func TestUnit_GoogleClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := NewGoogleClient(&config.Placesconfig{BaseURL: url, Timeout: time.Second}, nil)

	_, err := g.Autocomplete(context.Background(), "Park")
	assert.ErrorIs(t, err, myerrors.ErrUpstreamUnavailable)
}

func TestUnit_ProxyClient_UnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/place", r.URL.Path)
		assert.Equal(t, "Salt Lake", r.URL.Query().Get("input"))
		_, _ = w.Write([]byte(`{"locData":{"predictions":[{"place_id":"s1","description":"Salt Lake"}]}}`))
	}))
	defer srv.Close()

	p := NewProxyClient(srv.URL+"/", nil)

	raw, err := p.Autocomplete(context.Background(), "Salt Lake")
	require.NoError(t, err)
	assert.JSONEq(t, `{"predictions":[{"place_id":"s1","description":"Salt Lake"}]}`, string(raw))
}

func TestUnit_ProxyClient_BadEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"something":"else"}`))
	}))
	defer srv.Close()

	_, err := NewProxyClient(srv.URL, nil).Autocomplete(context.Background(), "x")
	assert.ErrorIs(t, err, myerrors.ErrMalformedUpstreamResponse)
}

func TestUnit_ProxyClient_PassesStatusThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"locData":{"predictions":[]}}`))
	}))
	defer srv.Close()

	_, err := NewProxyClient(srv.URL, nil).Autocomplete(context.Background(), "x")
	var statusErr *myerrors.UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
}

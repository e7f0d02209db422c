// Package places talks to the autocomplete provider, either directly or
// through a running /api/place proxy.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"rider/internal/config"
	"rider/internal/rider-service/core/myerrors"
)

// maxBody bounds what is read from the provider.
const maxBody = 1 << 20

type GoogleClient struct {
	cfg    *config.Placesconfig
	client *http.Client
}

func NewGoogleClient(cfg *config.Placesconfig, client *http.Client) *GoogleClient {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &GoogleClient{
		cfg:    cfg,
		client: client,
	}
}

// Autocomplete makes exactly one GET and returns the body as is.
func (g *GoogleClient) Autocomplete(ctx context.Context, input string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("input", input)
	params.Set("key", g.cfg.APIKey)

	reqURL := fmt.Sprintf("%s?%s", g.cfg.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return doRaw(g.client, req)
}

func doRaw(client *http.Client, req *http.Request) (json.RawMessage, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Join(myerrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Join(myerrors.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &myerrors.UpstreamStatusError{Status: resp.StatusCode}
	}
	return json.RawMessage(body), nil
}

package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"rider/internal/rider-service/core/domain/dto"
	"rider/internal/rider-service/core/myerrors"
)

// ProxyClient calls GET /api/place of a running rider service and unwraps
// the locData envelope.
type ProxyClient struct {
	baseURL string
	client  *http.Client
}

func NewProxyClient(baseURL string, client *http.Client) *ProxyClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (p *ProxyClient) Autocomplete(ctx context.Context, input string) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s/api/place?input=%s", p.baseURL, url.QueryEscape(input))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := doRaw(p.client, req)
	if err != nil {
		return nil, err
	}

	var env dto.PlaceResponse
	if err := json.Unmarshal(raw, &env); err != nil || len(env.LocData) == 0 {
		return nil, fmt.Errorf("proxy envelope: %w", myerrors.ErrMalformedUpstreamResponse)
	}
	return env.LocData, nil
}

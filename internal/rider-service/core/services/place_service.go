package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rider/internal/mylogger"
	"rider/internal/rider-service/core/myerrors"
	"rider/internal/rider-service/core/ports"
)

// PlaceService is the suggestion provider proxy: one upstream call per
// request, body returned unmodified.
type PlaceService struct {
	mylog    mylogger.Logger
	provider ports.IPlacesProvider
	timeout  time.Duration
}

func NewPlaceService(log mylogger.Logger, provider ports.IPlacesProvider, timeout time.Duration) ports.IPlacesProxy {
	return &PlaceService{
		mylog:    log,
		provider: provider,
		timeout:  timeout,
	}
}

func (ps *PlaceService) Autocomplete(ctx context.Context, input string) (json.RawMessage, error) {
	log := ps.mylog.Action("Autocomplete")

	ctx, cancel := context.WithTimeout(ctx, ps.timeout)
	defer cancel()

	start := time.Now()
	raw, err := ps.provider.Autocomplete(ctx, input)
	if err != nil {
		log.Warn("places provider call failed", "input_len", len(input), "error", err.Error())
		return nil, fmt.Errorf("autocomplete: %w", err)
	}

	if !json.Valid(raw) {
		log.Warn("places provider returned non-JSON body", "bytes", len(raw))
		return nil, fmt.Errorf("autocomplete: %w", myerrors.ErrMalformedUpstreamResponse)
	}

	log.Debug("places provider answered", "duration_ms", time.Since(start).Milliseconds())
	return raw, nil
}

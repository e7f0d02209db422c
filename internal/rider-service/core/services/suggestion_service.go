package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"rider/internal/mylogger"
	"rider/internal/rider-service/core/domain/dto"
	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/myerrors"
	"rider/internal/rider-service/core/ports"
)

type SuggestionService struct {
	mylog mylogger.Logger
	proxy ports.IPlacesProxy
}

func NewSuggestionService(log mylogger.Logger, proxy ports.IPlacesProxy) ports.ISuggestionService {
	return &SuggestionService{
		mylog: log,
		proxy: proxy,
	}
}

// FetchSuggestions never fails: any error is logged and yields an empty list.
func (ss *SuggestionService) FetchSuggestions(ctx context.Context, fragment string) model.SuggestionList {
	if fragment == "" {
		return model.SuggestionList{}
	}
	log := ss.mylog.Action("FetchSuggestions")

	raw, err := ss.proxy.Autocomplete(ctx, fragment)
	if err != nil {
		log.Warn("suggestions unavailable", "error", err.Error())
		return model.SuggestionList{}
	}

	list, err := ParsePredictions(raw)
	if err != nil {
		log.Warn("cannot read predictions", "error", err.Error())
		return model.SuggestionList{}
	}
	return list
}

// ParsePredictions maps the provider's predictions[] to suggestions in
// provider order.
func ParsePredictions(raw json.RawMessage) (model.SuggestionList, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode body: %w", myerrors.ErrMalformedUpstreamResponse)
	}

	preds, ok := body["predictions"]
	if !ok {
		return nil, fmt.Errorf("no predictions field: %w", myerrors.ErrMalformedUpstreamResponse)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(preds), []byte("[")) {
		return nil, fmt.Errorf("predictions is not an array: %w", myerrors.ErrMalformedUpstreamResponse)
	}

	var items []dto.Prediction
	if err := json.Unmarshal(preds, &items); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", myerrors.ErrMalformedUpstreamResponse)
	}

	list := make(model.SuggestionList, 0, len(items))
	for _, p := range items {
		list = append(list, model.Suggestion{ID: p.PlaceID, Label: p.Description})
	}
	return list, nil
}

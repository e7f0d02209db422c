package ports

import (
	"context"

	"rider/internal/rider-service/core/domain/dto"
	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/domain/translations"
)

type ISuggestionService interface {
	FetchSuggestions(ctx context.Context, fragment string) model.SuggestionList
}

type IFormService interface {
	Load(ctx context.Context, sid string) (model.Session, error)
	UpdateLocation(ctx context.Context, sid string, field model.Field, text string) (dto.SuggestionResult, error)
	BeginLocationUpdate(ctx context.Context, sid string, field model.Field, text string) (dto.SuggestionResult, error)
	FinishLocationUpdate(ctx context.Context, sid string, res dto.SuggestionResult, text string) (dto.SuggestionResult, error)
	SelectSuggestion(ctx context.Context, sid string, field model.Field, s model.Suggestion) (model.Session, error)
	SetSchedule(ctx context.Context, sid, raw string) (model.Session, error)
	SetVehicleType(ctx context.Context, sid, raw string) (model.Session, error)
	Apply(ctx context.Context, sid string, patch dto.FormPatch) (model.Session, error)
	Submit(ctx context.Context, sid string, locale model.Locale) (string, error)
}

type IComposer interface {
	Compose(form model.FormState, locale model.Locale) (string, error)
}

type ILocaleService interface {
	Resolve(stored string) (locale model.Locale, prompt bool)
	Choose(code string) (model.Locale, error)
	Translations(locale model.Locale) translations.Table
	Suggest(acceptLanguage string) model.Locale
}

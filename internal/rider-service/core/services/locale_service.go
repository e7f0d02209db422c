package services

import (
	"fmt"

	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/domain/translations"
	"rider/internal/rider-service/core/myerrors"
	"rider/internal/rider-service/core/ports"

	"golang.org/x/text/language"
)

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Bengali,
})

type LocaleService struct{}

func NewLocaleService() ports.ILocaleService {
	return &LocaleService{}
}

// Resolve maps the stored preference to the active locale. An empty value
// means the user has not chosen yet and the prompt must be shown; anything
// unrecognised falls back to English without prompting.
func (LocaleService) Resolve(stored string) (model.Locale, bool) {
	if stored == "" {
		return model.LocaleEN, true
	}
	if l, ok := model.ParseLocale(stored); ok {
		return l, false
	}
	return model.LocaleEN, false
}

func (LocaleService) Choose(code string) (model.Locale, error) {
	l, ok := model.ParseLocale(code)
	if !ok {
		return "", fmt.Errorf("%q: %w", code, myerrors.ErrUnknownLocale)
	}
	return l, nil
}

func (LocaleService) Translations(locale model.Locale) translations.Table {
	return translations.For(locale)
}

// Suggest picks the locale to offer first in the prompt.
func (LocaleService) Suggest(acceptLanguage string) model.Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return model.LocaleEN
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return model.LocaleEN
	}
	return model.Locales[idx]
}

package services

import (
	"testing"

	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_LocaleResolve(t *testing.T) {
	svc := NewLocaleService()

	tests := []struct {
		stored string
		want   model.Locale
		prompt bool
	}{
		{"", model.LocaleEN, true},
		{"en", model.LocaleEN, false},
		{"bn", model.LocaleBN, false},
		{"fr", model.LocaleEN, false},
		{"BN", model.LocaleEN, false},
	}

	for _, tt := range tests {
		got, prompt := svc.Resolve(tt.stored)
		assert.Equal(t, tt.want, got, tt.stored)
		assert.Equal(t, tt.prompt, prompt, tt.stored)
	}
}

func TestUnit_LocaleUnknownStoredValueRendersEnglish(t *testing.T) {
	svc := NewLocaleService()

	l, _ := svc.Resolve("xx")
	assert.Equal(t, "Start Location", svc.Translations(l).Placeholders.StartLocation)
}

func TestUnit_LocaleChoose(t *testing.T) {
	svc := NewLocaleService()

	l, err := svc.Choose("bn")
	require.NoError(t, err)
	assert.Equal(t, model.LocaleBN, l)

	_, err = svc.Choose("de")
	assert.ErrorIs(t, err, myerrors.ErrUnknownLocale)
}

func TestUnit_LocaleSwitchRoundTrip(t *testing.T) {
	svc := NewLocaleService()

	before := svc.Translations(model.LocaleEN)
	_ = svc.Translations(model.LocaleBN)
	after := svc.Translations(model.LocaleEN)

	assert.Equal(t, before.Placeholders, after.Placeholders)
	assert.Equal(t, before, after)
}

func TestUnit_LocaleSuggest(t *testing.T) {
	svc := NewLocaleService()

	assert.Equal(t, model.LocaleBN, svc.Suggest("bn-BD,bn;q=0.9,en;q=0.5"))
	assert.Equal(t, model.LocaleBN, svc.Suggest("bn-IN"))
	assert.Equal(t, model.LocaleEN, svc.Suggest("en-US,en;q=0.9"))
	assert.Equal(t, model.LocaleEN, svc.Suggest(""))
	assert.Equal(t, model.LocaleEN, svc.Suggest("ja-JP"))
}

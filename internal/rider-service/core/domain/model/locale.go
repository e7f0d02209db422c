package model

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleBN Locale = "bn"
)

var Locales = [...]Locale{LocaleEN, LocaleBN}

func ParseLocale(s string) (Locale, bool) {
	switch Locale(s) {
	case LocaleEN, LocaleBN:
		return Locale(s), true
	}
	return "", false
}

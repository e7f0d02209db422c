package handle

import (
	"net/http"
	"time"

	"rider/internal/rider-service/core/ports"
)

const localeCookieAge = 365 * 24 * time.Hour

type LocaleHandler struct {
	locale ports.ILocaleService
}

func NewLocaleHandler(locale ports.ILocaleService) *LocaleHandler {
	return &LocaleHandler{locale: locale}
}

// Choose stores the picked language in the appLanguage cookie.
func (lh *LocaleHandler) Choose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := lh.locale.Choose(r.PostFormValue("lang"))
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     LocaleCookie,
			Value:    string(l),
			Path:     "/",
			MaxAge:   int(localeCookieAge.Seconds()),
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

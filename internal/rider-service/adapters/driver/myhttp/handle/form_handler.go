package handle

import (
	"errors"
	"net/http"

	"rider/internal/mylogger"
	"rider/internal/rider-service/adapters/driver/myhttp/web"
	"rider/internal/rider-service/core/domain/dto"
	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/myerrors"
	"rider/internal/rider-service/core/ports"
)

type FormHandler struct {
	form     ports.IFormService
	locale   ports.ILocaleService
	renderer *web.Renderer
	ads      web.AdsConfig
	log      mylogger.Logger
}

func NewFormHandler(
	form ports.IFormService,
	locale ports.ILocaleService,
	renderer *web.Renderer,
	ads web.AdsConfig,
	log mylogger.Logger,
) *FormHandler {
	return &FormHandler{
		form:     form,
		locale:   locale,
		renderer: renderer,
		ads:      ads,
		log:      log,
	}
}

// Index renders the form. Without a locale cookie the language prompt is
// shown over English text.
func (fh *FormHandler) Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := fh.form.Load(r.Context(), SessionID(r))
		if err != nil {
			fh.log.Action("index").Error("cannot load session", err)
			JsonError(w, statusFor(err), err)
			return
		}
		fh.render(w, r, http.StatusOK, sess, "")
	}
}

func (fh *FormHandler) UpdateLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := model.Field(r.PathValue("field"))

		res, err := fh.form.UpdateLocation(r.Context(), SessionID(r), field, r.PostFormValue("value"))
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FormHandler) SelectSuggestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := model.Field(r.PathValue("field"))
		sug := model.Suggestion{
			ID:    r.PostFormValue("id"),
			Label: r.PostFormValue("label"),
		}

		sess, err := fh.form.SelectSuggestion(r.Context(), SessionID(r), field, sug)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.NewSessionView(sess))
	}
}

func (fh *FormHandler) SetSchedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := fh.form.SetSchedule(r.Context(), SessionID(r), r.PostFormValue("value"))
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.NewSessionView(sess))
	}
}

func (fh *FormHandler) SetVehicleType() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := fh.form.SetVehicleType(r.Context(), SessionID(r), r.PostFormValue("value"))
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.NewSessionView(sess))
	}
}

// Submit applies any posted fields, then redirects to the deep link. An
// invalid schedule re-renders the page with the localized message.
func (fh *FormHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := fh.log.Action("submit")
		sid := SessionID(r)

		if err := r.ParseForm(); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if _, err := fh.form.Apply(r.Context(), sid, patchFromForm(r)); err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		locale, _ := fh.locale.Resolve(localeCookie(r))
		link, err := fh.form.Submit(r.Context(), sid, locale)
		if errors.Is(err, myerrors.ErrInvalidSchedule) {
			sess, loadErr := fh.form.Load(r.Context(), sid)
			if loadErr != nil {
				JsonError(w, statusFor(loadErr), loadErr)
				return
			}
			fh.render(w, r, http.StatusUnprocessableEntity, sess, fh.locale.Translations(locale).InvalidSchedule)
			return
		}
		if err != nil {
			log.Error("submit failed", err)
			JsonError(w, statusFor(err), err)
			return
		}

		http.Redirect(w, r, link, http.StatusSeeOther)
	}
}

func patchFromForm(r *http.Request) dto.FormPatch {
	get := func(key string) *string {
		if _, ok := r.PostForm[key]; !ok {
			return nil
		}
		v := r.PostForm.Get(key)
		return &v
	}
	return dto.FormPatch{
		Start:       get("start"),
		Destination: get("destination"),
		ScheduledAt: get("scheduled_at"),
		VehicleType: get("vehicle_type"),
	}
}

func (fh *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, sess model.Session, errMsg string) {
	locale, prompt := fh.locale.Resolve(localeCookie(r))

	data := web.NewPageData(
		fh.locale.Translations(locale),
		prompt,
		fh.locale.Suggest(r.Header.Get("Accept-Language")),
		sess,
	)
	data.Error = errMsg
	data.Ads = fh.ads

	if err := fh.renderer.Render(w, status, data); err != nil {
		fh.log.Action("render").Error("cannot render page", err)
		JsonError(w, http.StatusInternalServerError, err)
	}
}

package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"rider/internal/rider-service/core/domain/dto"
	"rider/internal/rider-service/core/myerrors"
)

type ctxKey int

const sessionKey ctxKey = iota

// LocaleCookie holds the chosen language.
const LocaleCookie = "appLanguage"

func ContextWithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionKey, sid)
}

func SessionID(r *http.Request) string {
	sid, _ := r.Context().Value(sessionKey).(string)
	return sid
}

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}

func statusFor(err error) int {
	var statusErr *myerrors.UpstreamStatusError
	switch {
	case errors.As(err, &statusErr):
		// only error statuses pass through; 1xx and 3xx would drop the body
		if statusErr.Status >= http.StatusBadRequest && statusErr.Status < 600 {
			return statusErr.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, myerrors.ErrUpstreamUnavailable),
		errors.Is(err, myerrors.ErrMalformedUpstreamResponse):
		return http.StatusBadGateway
	case errors.Is(err, myerrors.ErrUnknownField):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrUnknownVehicleType),
		errors.Is(err, myerrors.ErrUnknownLocale):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrInvalidSchedule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, myerrors.ErrStoreConnClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func localeCookie(r *http.Request) string {
	c, err := r.Cookie(LocaleCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

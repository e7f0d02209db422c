package handle

import (
	"encoding/json"
	"net/http"

	"rider/internal/mylogger"
	"rider/internal/rider-service/core/domain/dto"
	"rider/internal/rider-service/core/ports"
)

type PlaceHandler struct {
	proxy ports.IPlacesProxy
	log   mylogger.Logger
}

func NewPlaceHandler(proxy ports.IPlacesProxy, log mylogger.Logger) *PlaceHandler {
	return &PlaceHandler{
		proxy: proxy,
		log:   log,
	}
}

// Autocomplete serves GET /api/place?input=. Failures keep the envelope
// shape with an empty prediction list.
func (ph *PlaceHandler) Autocomplete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := r.URL.Query().Get("input")

		raw, err := ph.proxy.Autocomplete(r.Context(), input)
		if err != nil {
			code := statusFor(err)
			ph.log.Action("api_place").Warn("autocomplete failed", "status", code, "error", err.Error())
			writeLocData(w, code, dto.EmptyLocData)
			return
		}

		writeLocData(w, http.StatusOK, raw)
	}
}

// writeLocData embeds raw byte for byte.
func writeLocData(w http.ResponseWriter, code int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"locData":`))
	_, _ = w.Write(raw)
	_, _ = w.Write([]byte("}\n"))
}

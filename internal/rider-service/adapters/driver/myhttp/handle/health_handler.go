package handle

import (
	"net/http"

	"rider/internal/rider-service/core/domain/dto"
	"rider/internal/rider-service/core/ports"
)

type HealthHandler struct {
	store  ports.ISessionRepo
	broker ports.IRideRequestPublisher
}

func NewHealthHandler(store ports.ISessionRepo, broker ports.IRideRequestPublisher) *HealthHandler {
	return &HealthHandler{store: store, broker: broker}
}

func (hh *HealthHandler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := dto.HealthResponse{Status: "ok", Store: "ok", Broker: "ok"}
		code := http.StatusOK

		if err := hh.store.IsAlive(); err != nil {
			res.Status, res.Store = "degraded", err.Error()
			code = http.StatusServiceUnavailable
		}
		// the form keeps working without the broker
		if hh.broker != nil && !hh.broker.IsAlive() {
			res.Broker = "down"
			if res.Status == "ok" {
				res.Status = "degraded"
			}
		}

		jsonResponse(w, code, res)
	}
}

package bm

import (
	"context"

	"rider/internal/mylogger"

	messagebrokerdto "rider/internal/rider-service/core/domain/message_broker_dto"
)

// Noop stands in when RABBITMQ_ENABLED is false; it only logs.
type Noop struct {
	mylog mylogger.Logger
}

func NewNoop(mylog mylogger.Logger) *Noop {
	return &Noop{mylog: mylog}
}

func (n *Noop) PublishRideRequested(_ context.Context, msg messagebrokerdto.RideRequested) error {
	n.mylog.Action("publishRideRequested").Debug("broker disabled, event dropped",
		"request_id", msg.RequestID, "routing_key", RoutingKey(msg.VehicleType))
	return nil
}

func (n *Noop) IsAlive() bool { return true }

func (n *Noop) Close() error { return nil }

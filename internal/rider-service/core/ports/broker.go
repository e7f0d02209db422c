package ports

import (
	"context"

	messagebrokerdto "rider/internal/rider-service/core/domain/message_broker_dto"
)

const RideRequestedKey = "ride.requested.%s"

type IRideRequestPublisher interface {
	PublishRideRequested(ctx context.Context, msg messagebrokerdto.RideRequested) error
	IsAlive() bool
	Close() error
}

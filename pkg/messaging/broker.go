package messaging

import (
	"context"
)

// Broker is the fan-out channel other calendar sessions listen on.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// ScheduleChannel carries schedule change notifications; clients
// subscribed here refresh their calendar when a message arrives.
const ScheduleChannel = "scheduler.events"

// Event is the wire shape published on ScheduleChannel.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

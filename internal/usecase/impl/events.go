package impl

import (
	"context"

	"emart/internal/domain/service"
)

// publish signals each topic in order. A nil bus is allowed in tests that do not observe events.
func publish(ctx context.Context, bus service.EventBus, topics ...service.Topic) {
	if bus == nil {
		return
	}
	for _, topic := range topics {
		bus.Publish(ctx, service.Event{Topic: topic})
	}
}

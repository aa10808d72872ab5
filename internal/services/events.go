package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	rabbit "storefront-service/internal/infra/rabbitmq"
)

const publishTimeout = 5 * time.Second

// EventEmitter publishes domain events in the background so a slow broker
// never holds up a request.
type EventEmitter struct {
	publisher rabbit.PublisherInterface
	wg        sync.WaitGroup
}

func NewEventEmitter(pub rabbit.PublisherInterface) *EventEmitter {
	return &EventEmitter{publisher: pub}
}

func (e *EventEmitter) Emit(event string, data any) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		slog.Info("publishing event", "event", event)
		if err := e.publisher.Publish(ctx, event, data); err != nil {
			slog.Error("failed to publish event", "event", event, "error", err)
		}
	}()
}

// Wait blocks until every emitted event has been handed to the broker or
// failed.
func (e *EventEmitter) Wait() {
	e.wg.Wait()
}

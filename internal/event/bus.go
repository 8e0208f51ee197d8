package event

import (
	"context"
	"log/slog"
	"sync"
)

// Handler consumes a published event.
type Handler func(ctx context.Context, evt Event) error

// Publisher is the publishing side of the Bus.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// Bus dispatches events synchronously to subscribed handlers, in subscription
// order. Handler errors are logged and never reach the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wildcard []Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for one event name.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// SubscribeAll registers a handler that receives every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wildcard = append(b.wildcard, h)
}

// Publish delivers evt to the handlers subscribed to its name, then to the
// wildcard handlers.
func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[evt.Name()])+len(b.wildcard))
	handlers = append(handlers, b.handlers[evt.Name()]...)
	handlers = append(handlers, b.wildcard...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			slog.Error("event handler failed", "event", evt.Name(), "error", err)
		}
	}
}

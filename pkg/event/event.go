// Package event is the storefront's in-process event bus.
//
// Listeners registered with Listen run synchronously inside Fire, or on a
// bounded worker pool inside Dispatch so the caller never waits on them:
//
//	bus := event.New(4, 64)
//	defer bus.Close()
//
//	bus.Listen(event.OrderCreated, func(e event.Event) { feed.Broadcast(e) })
//	bus.Dispatch(event.OrderCreated, order)
package event

import (
	"errors"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Event names published by the storefront.
const (
	OrderCreated       = "order.created"
	OrderStatusUpdated = "order.status_updated"
)

// Event is what listeners receive.
type Event struct {
	Name    string    `json:"event"`
	Payload any       `json:"data"`
	At      time.Time `json:"at"`
}

// Handler receives a dispatched event.
type Handler func(e Event)

// Bus routes events to listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *pool
}

// New creates a Bus whose async listeners run on workers goroutines with
// room for queue pending deliveries.
func New(workers, queue int) *Bus {
	return &Bus{
		handlers: map[string][]Handler{},
		pool:     newPool(workers, queue),
	}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...)
}

// Fire delivers the event to every listener before returning.
func (b *Bus) Fire(name string, payload any) {
	e := Event{Name: name, Payload: payload, At: time.Now().UTC()}
	for _, h := range b.listeners(name) {
		h(e)
	}
}

// Dispatch queues one delivery per listener on the worker pool and returns
// immediately. Deliveries that do not fit in the queue are dropped and logged.
func (b *Bus) Dispatch(name string, payload any) {
	e := Event{Name: name, Payload: payload, At: time.Now().UTC()}
	for _, h := range b.listeners(name) {
		h := h
		if err := b.pool.submit(func() { h(e) }); err != nil {
			if errors.Is(err, ErrPoolFull) {
				logger.Warn("event: dropped delivery", "event", name, "error", err)
			}
		}
	}
}

// Close waits for queued deliveries and stops the workers.
// Dispatch after Close is a no-op.
func (b *Bus) Close() {
	b.pool.shutdown()
}

// Package events is an in-process pub/sub bus decoupling the chat front end
// from side effects of booking changes (calendar mirroring, notifications).
package events

import (
	"sync"
	"time"

	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// Event types published by the bot.
const (
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	SessionTeardown  = "session.teardown"
)

// Event is one occurrence on the bus. Booking is set for the booking.* types.
type Event struct {
	Type    string
	Booking *models.Booking
	At      time.Time
}

// Handler reacts to an event. Handlers run synchronously on the publisher's
// goroutine; a handler that blocks should spawn its own.
type Handler func(Event)

// Bus is an in-process pub/sub bus.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for the given event type.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], h)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.At.IsZero() {
		event.At = time.Now()
	}
	for _, h := range handlers {
		h(event)
	}
}

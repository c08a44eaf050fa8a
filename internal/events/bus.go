package events

import (
	"log"
	"sync"
	"time"
)

// Topic identifies a mutation event
type Topic string

const (
	TopicRentCreated    Topic = "rent.created"
	TopicRentUpdated    Topic = "rent.updated"
	TopicRentDeleted    Topic = "rent.deleted"
	TopicUnitCreated    Topic = "unit.created"
	TopicUnitUpdated    Topic = "unit.updated"
	TopicUnitDeleted    Topic = "unit.deleted"
	TopicPaymentCreated Topic = "payment.created"
	TopicPaymentUpdated Topic = "payment.updated"
	TopicPaymentDeleted Topic = "payment.deleted"
)

// Event carries what changed; subscribers re-fetch what they need
type Event struct {
	Topic    Topic     `json:"topic"`
	Entity   string    `json:"entity"`
	EntityID int64     `json:"entity_id"`
	At       time.Time `json:"at"`
}

// Handler receives published events
type Handler func(Event)

// Bus is an in-process pub/sub for cache invalidation. Mutating handlers
// publish after a successful commit; subscribers (search reindex, audit
// log) react. Dispatch is synchronous on the publisher's goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]Handler
	all  []Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]Handler)}
}

// Subscribe registers a handler for one topic
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// SubscribeAll registers a handler for every topic
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish delivers the event to topic and catch-all subscribers.
// A panicking handler is logged and does not take down the publisher.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Topic])+len(b.all))
	handlers = append(handlers, b.subs[e.Topic]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(h, e)
	}
}

func (b *Bus) dispatch(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Events] subscriber panic on %s: %v", e.Topic, r)
		}
	}()
	h(e)
}

// Package bus provides the process-wide in-memory publish/subscribe
// channel that decouples background refreshes from their observers.
// Topics are a closed, typed set so a misspelled topic fails to compile
// instead of silently never firing.
package bus

import "sync"

// Topic identifies one event stream.
type Topic string

const (
	TopicCatalogUpdated  Topic = "catalog-updated"
	TopicPaymentsUpdated Topic = "payments-updated"
	TopicOrdersUpdated   Topic = "orders-updated"
	TopicOrderSubmitted  Topic = "order-submitted"
)

// Event is a published occurrence. OrderID is set only for
// TopicOrderSubmitted.
type Event struct {
	Topic   Topic  `json:"topic"`
	OrderID string `json:"order_id,omitempty"`
}

// Bus is an in-memory pub/sub hub. It holds no history: a subscriber
// registered after an event fires never sees it. Create one at process
// start and pass it to the stores.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[Topic]map[int]func(Event)
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic]map[int]func(Event))}
}

// Subscribe registers fn for a topic and returns its unsubscribe function.
// Unsubscribing twice is a no-op.
func (b *Bus) Subscribe(topic Topic, fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func(Event))
	}
	id := b.next
	b.next++
	b.subs[topic][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers the event to all current subscribers of its topic,
// synchronously, in unspecified order. Handlers run outside the bus lock
// so a handler may subscribe or unsubscribe without deadlocking.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.subs[event.Topic]))
	for _, fn := range b.subs[event.Topic] {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}

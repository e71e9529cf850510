// Package broadcast fans telemetry events out to live stream subscribers.
//
// Publish never blocks: each subscriber owns a bounded queue and an enqueue
// that cannot complete immediately marks the subscriber dead. Dead
// subscribers are removed after the fan-out pass, and their Done channel is
// closed so the connection handler can return.
package broadcast

import (
	"sync"

	"github.com/google/uuid"

	"electrolyzer-sim/internal/metrics"
	"electrolyzer-sim/internal/telemetry"
)

// DefaultQueueSize is the per-subscriber queue capacity.
const DefaultQueueSize = 256

// Subscriber is one live stream connection.
type Subscriber struct {
	ID     string
	events chan telemetry.Event
	done   chan struct{}
	once   sync.Once
}

// Events returns the subscriber's delivery queue.
func (s *Subscriber) Events() <-chan telemetry.Event {
	return s.events
}

// Done is closed once the subscriber has been removed from the broadcaster.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// offer enqueues e without blocking and reports whether it was accepted.
func (s *Subscriber) offer(e telemetry.Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- e:
		return true
	default:
		return false
	}
}

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

// Broadcaster maintains the subscriber set.
type Broadcaster struct {
	mu        sync.RWMutex
	subs      map[string]*Subscriber
	queueSize int
	metrics   *metrics.Metrics
}

// New creates an empty broadcaster. queueSize <= 0 selects DefaultQueueSize;
// m may be nil.
func New(queueSize int, m *metrics.Metrics) *Broadcaster {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Broadcaster{
		subs:      make(map[string]*Subscriber),
		queueSize: queueSize,
		metrics:   m,
	}
}

// Subscribe registers a new subscriber with an empty queue.
func (b *Broadcaster) Subscribe() *Subscriber {
	sub := &Subscriber{
		ID:     uuid.New().String(),
		events: make(chan telemetry.Event, b.queueSize),
		done:   make(chan struct{}),
	}
	b.mu.Lock()
	b.subs[sub.ID] = sub
	b.metrics.SetSubscribers(len(b.subs))
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes sub. It is safe to call more than once.
func (b *Broadcaster) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	b.remove(sub)
}

// remove deletes sub from the set, closes it and reports whether it was registered.
func (b *Broadcaster) remove(sub *Subscriber) bool {
	b.mu.Lock()
	cur, ok := b.subs[sub.ID]
	removed := ok && cur == sub
	if removed {
		delete(b.subs, sub.ID)
	}
	b.metrics.SetSubscribers(len(b.subs))
	b.mu.Unlock()
	sub.close()
	return removed
}

// Publish delivers e to every registered subscriber without blocking and
// returns the number of subscribers that accepted it.
func (b *Broadcaster) Publish(e telemetry.Event) int {
	b.mu.RLock()
	subs := make([]*Subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	var dead []*Subscriber
	delivered := 0
	for _, s := range subs {
		if s.offer(e) {
			delivered++
			continue
		}
		dead = append(dead, s)
	}
	dropped := 0
	for _, s := range dead {
		if b.remove(s) {
			dropped++
		}
	}
	b.metrics.Published(delivered)
	b.metrics.Dropped(dropped)
	return delivered
}

// Write lets the broadcaster act as the simulator's event writer.
func (b *Broadcaster) Write(e telemetry.Event) error {
	b.Publish(e)
	return nil
}

// Len returns the number of registered subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close removes every subscriber.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[string]*Subscriber)
	b.metrics.SetSubscribers(0)
	b.mu.Unlock()
	for _, s := range subs {
		s.close()
	}
}

package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event is a named signal published to decouple a request handler from its
// follow-up work. Publish never blocks the publisher: a subscriber that is
// not keeping up drops events rather than stalling request handling.
type Event struct {
	Name string
	Time time.Time
	Data interface{}
}

// Bus is an in-memory fanout of events to any number of subscribers
type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New creates an empty in-memory bus
func New() Bus {
	return &memBus{subs: make(map[uint64]chan Event)}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	// Snapshot subscribers so no lock is held while sending
	b.mu.RLock()
	channels := make([]chan Event, 0, len(b.subs))
	for _, ch := range b.subs {
		channels = append(channels, ch)
	}
	b.mu.RUnlock()

	for _, ch := range channels {
		// A concurrent unsubscribe can close the channel mid-send; swallow
		// the resulting panic instead of taking the publisher down.
		func() {
			defer func() { _ = recover() }()
			select {
			case ch <- e:
			default:
				// Subscriber buffer full: drop
			}
		}()
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe
}

package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Source feeds change events into a hub until its context ends.
type Source interface {
	Listen(ctx context.Context, emit func(evt Event)) error
}

// Subscriber opens scoped subscriptions.
type Subscriber interface {
	Subscribe(table string, filter Filter) *Subscription
}

// Hub fans change events out to the subscriptions whose table and filter match.
type Hub struct {
	mu   sync.RWMutex
	seq  uint64
	subs map[uint64]*Subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*Subscription)}
}

func (v *Hub) Subscribe(table string, filter Filter) *Subscription {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	sub := newSubscription(v, v.seq, table, filter)
	v.subs[sub.id] = sub
	log.Debug().Str("table", table).Str("filter", filter.String()).Msg("Opened a realtime subscription.")
	return sub
}

func (v *Hub) detach(id uint64) {
	v.mu.Lock()
	delete(v.subs, id)
	v.mu.Unlock()
}

// Publish queues the event on every matching subscription.
// Callers must publish from a single goroutine to keep emission order.
func (v *Hub) Publish(evt Event) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, sub := range v.subs {
		if sub.matches(evt) {
			sub.enqueue(evt)
		}
	}
}

func (v *Hub) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

// Run pumps the source into the hub until the context is done.
func (v *Hub) Run(ctx context.Context, source Source) error {
	return source.Listen(ctx, v.Publish)
}

// Close shuts every subscription down.
func (v *Hub) Close() {
	v.mu.RLock()
	subs := make([]*Subscription, 0, len(v.subs))
	for _, sub := range v.subs {
		subs = append(subs, sub)
	}
	v.mu.RUnlock()

	for _, sub := range subs {
		sub.Close()
	}
}

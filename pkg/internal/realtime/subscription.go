package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Handler func(evt Event)

// Subscription delivers the events of one table and filter to its handlers.
// Events are queued from the moment it is opened and delivered once Start is called.
// Handlers run one at a time on the subscription's own goroutine, in emission order.
type Subscription struct {
	id     uint64
	table  string
	filter Filter
	hub    *Hub

	mu       sync.Mutex
	handlers map[EventType][]Handler
	queue    []Event

	wake      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

func newSubscription(hub *Hub, id uint64, table string, filter Filter) *Subscription {
	sub := &Subscription{
		id:       id,
		table:    table,
		filter:   filter,
		hub:      hub,
		handlers: make(map[EventType][]Handler),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	return sub
}

// Start begins delivery, handlers attached afterwards still receive later events.
func (v *Subscription) Start() *Subscription {
	v.startOnce.Do(func() {
		go v.run()
	})
	return v
}

func (v *Subscription) on(kind EventType, handler Handler) *Subscription {
	v.mu.Lock()
	v.handlers[kind] = append(v.handlers[kind], handler)
	v.mu.Unlock()
	return v
}

func (v *Subscription) OnInsert(handler Handler) *Subscription {
	return v.on(EventInsert, handler)
}

func (v *Subscription) OnUpdate(handler Handler) *Subscription {
	return v.on(EventUpdate, handler)
}

func (v *Subscription) OnDelete(handler Handler) *Subscription {
	return v.on(EventDelete, handler)
}

func (v *Subscription) Table() string {
	return v.table
}

func (v *Subscription) Filter() Filter {
	return v.filter
}

// Done is closed once the subscription stops delivering.
func (v *Subscription) Done() <-chan struct{} {
	return v.done
}

// Close detaches the subscription from its hub. Pending events are dropped.
func (v *Subscription) Close() {
	v.closeOnce.Do(func() {
		close(v.done)
		if v.hub != nil {
			v.hub.detach(v.id)
		}
		v.mu.Lock()
		v.queue = nil
		v.mu.Unlock()
	})
}

func (v *Subscription) closed() bool {
	select {
	case <-v.done:
		return true
	default:
		return false
	}
}

func (v *Subscription) matches(evt Event) bool {
	return evt.Table == v.table && v.filter.Match(evt.Row())
}

func (v *Subscription) enqueue(evt Event) {
	if v.closed() {
		return
	}
	v.mu.Lock()
	v.queue = append(v.queue, evt)
	v.mu.Unlock()

	select {
	case v.wake <- struct{}{}:
	default:
	}
}

func (v *Subscription) next() (Event, []Handler, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.queue) == 0 {
		return Event{}, nil, false
	}
	evt := v.queue[0]
	v.queue = v.queue[1:]
	handlers := append([]Handler(nil), v.handlers[evt.Type]...)
	return evt, handlers, true
}

func (v *Subscription) run() {
	for {
		select {
		case <-v.done:
			return
		case <-v.wake:
		}

		for {
			evt, handlers, ok := v.next()
			if !ok {
				break
			}
			for _, handler := range handlers {
				if v.closed() {
					return
				}
				v.dispatch(handler, evt)
			}
		}
	}
}

func (v *Subscription) dispatch(handler Handler, evt Event) {
	defer func() {
		if err := recover(); err != nil {
			log.Error().
				Any("panic", err).
				Str("table", v.table).
				Str("filter", v.filter.String()).
				Msg("A realtime handler panicked, the event was skipped...")
		}
	}()
	handler(evt)
}

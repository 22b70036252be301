package events

import "sync"

// Handler receives envelopes in emission order
type Handler func(env *Envelope)

// Bus is the capability formatters use to observe a run
type Bus interface {
	Subscribe(h Handler) (unsubscribe func())
	Emit(env *Envelope)
}

// Broadcaster delivers every emitted envelope to all current subscribers
// synchronously, in subscription order.
type Broadcaster struct {
	mu       sync.RWMutex
	nextID   int
	handlers []subscription
}

type subscription struct {
	id int
	h  Handler
}

// NewBroadcaster creates an empty broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers h and returns a function that removes it again
func (b *Broadcaster) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription{id: id, h: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.handlers {
				if s.id == id {
					b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Emit hands env to every subscriber. Handlers may subscribe or
// unsubscribe while being called; changes apply from the next Emit.
func (b *Broadcaster) Emit(env *Envelope) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	for i, s := range b.handlers {
		handlers[i] = s.h
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(env)
	}
}

// Len returns the number of active subscribers
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package events

import (
	"sync"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
)

// Handler consumes a single published [Event].
type Handler func(Event)

// Bus is a synchronous in-process publish/subscribe hub. Handlers run on the
// publisher's goroutine in subscription order; a panicking handler is
// recovered and logged so publishers never observe subscriber failures.
type Bus struct {
	log *logger.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[int]Handler
	order  []int
}

// NewBus constructs an empty [Bus] that reports handler failures to log.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		log:  log,
		subs: make(map[int]Handler),
	}
}

// Subscribe registers h for every published event and returns a function
// that removes the subscription. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = h
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers e to every current subscriber, in subscription order.
// Handlers registered or removed while Publish runs take effect on the next
// call. A handler panic is logged and delivery continues with the rest.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, id := range b.order {
		if h, ok := b.subs[id]; ok {
			handlers = append(handlers, h)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Str("event", e.Name()).
				Any("panic", r).
				Msg("event handler panicked")
		}
	}()
	h(e)
}

// On subscribes fn to events of the concrete type T only; other event types
// are ignored. It returns the unsubscribe function of the underlying
// subscription.
func On[T Event](b *Bus, fn func(T)) func() {
	return b.Subscribe(func(e Event) {
		if typed, ok := e.(T); ok {
			fn(typed)
		}
	})
}

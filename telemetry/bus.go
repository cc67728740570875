package telemetry

import (
	"fmt"
	"log/slog"
)

// Observer receives events published on a Bus.
// Observers are compared by identity, so implementations should be pointers.
type Observer interface {
	Update(generation int, e Event)
}

// Bus maps event kinds to ordered observer lists.
type Bus struct {
	observers map[EventType][]Observer
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{observers: make(map[EventType][]Observer)}
}

// Subscribe adds obs for kind. Subscribing twice has no effect.
func (b *Bus) Subscribe(kind EventType, obs Observer) {
	for _, o := range b.observers[kind] {
		if o == obs {
			return
		}
	}
	b.observers[kind] = append(b.observers[kind], obs)
}

// SubscribeAll subscribes obs to several kinds.
func (b *Bus) SubscribeAll(obs Observer, kinds ...EventType) {
	for _, k := range kinds {
		b.Subscribe(k, obs)
	}
}

// Unsubscribe removes obs from kind if present.
func (b *Bus) Unsubscribe(kind EventType, obs Observer) {
	list := b.observers[kind]
	for i, o := range list {
		if o == obs {
			b.observers[kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of observers for kind.
func (b *Bus) Subscribers(kind EventType) int {
	return len(b.observers[kind])
}

// Publish delivers e to every observer of kind in subscription order.
// A panicking observer is logged and skipped.
func (b *Bus) Publish(kind EventType, generation int, e Event) {
	e.Type = kind
	for _, obs := range b.observers[kind] {
		b.deliver(obs, generation, e)
	}
}

func (b *Bus) deliver(obs Observer, generation int, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("observer failed",
				"event", e.Type.String(),
				"generation", generation,
				"observer", fmt.Sprintf("%T", obs),
				"panic", r,
			)
		}
	}()
	obs.Update(generation, e)
}

package event

import (
	"context"
	"fmt"
)

// Topic binds one event name to a payload type, so registration and emission
// are checked at compile time instead of by convention:
//
//	type OrderPlaced struct{ ID string; Total int }
//
//	placed := event.NewTopic[OrderPlaced](d, "order.placed")
//	off := placed.On(func(ctx context.Context, e OrderPlaced) error {
//	    return invoice.Create(ctx, e.ID)
//	})
//	placed.Fire(ctx, OrderPlaced{ID: "ord_1", Total: 4200})
//
// A Topic shares its dispatcher's registry: firing the same name through the
// untyped API still reaches Topic listeners. An untyped payload of the wrong
// type is routed to the ErrorHandler, never a panic.
type Topic[T any] struct {
	name string
	d    *Dispatcher
}

// NewTopic binds name on d to payload type T.
func NewTopic[T any](d *Dispatcher, name string) Topic[T] {
	return Topic[T]{name: name, d: d}
}

// Name returns the event name this topic is bound to.
func (t Topic[T]) Name() string { return t.name }

// On registers a synchronous typed listener.
func (t Topic[T]) On(fn func(ctx context.Context, v T) error) func() {
	return t.d.On(t.name, t.wrap(fn))
}

// OnAsync registers an asynchronous typed listener.
func (t Topic[T]) OnAsync(fn func(ctx context.Context, v T) error) func() {
	return t.d.OnAsync(t.name, t.wrap(fn))
}

// Once registers a one-shot synchronous typed listener.
func (t Topic[T]) Once(fn func(ctx context.Context, v T) error) func() {
	return t.d.Once(t.name, t.wrap(fn))
}

// Fire dispatches v without waiting for asynchronous listeners.
func (t Topic[T]) Fire(ctx context.Context, v T) {
	t.d.Fire(ctx, t.name, v)
}

// FireWait dispatches v and blocks until every listener has settled.
func (t Topic[T]) FireWait(ctx context.Context, v T) {
	t.d.FireWait(ctx, t.name, v)
}

func (t Topic[T]) wrap(fn func(context.Context, T) error) Listener {
	return func(ctx context.Context, payload any) error {
		v, ok := payload.(T)
		if !ok {
			return fmt.Errorf("event: %q payload is %T, want %T", t.name, payload, v)
		}
		return fn(ctx, v)
	}
}

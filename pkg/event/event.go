// Package event provides an in-process publish/subscribe dispatcher.
//
// Listeners are registered against an event name and invoked in registration
// order every time that name is fired. Registration returns an unsubscribe
// handle; calling it removes exactly that registration and is safe to call
// more than once:
//
//	d := event.New(event.WithErrorHandler(event.LogErrors))
//
//	off := d.On("user.registered", func(ctx context.Context, payload any) error {
//	    mail.SendWelcome(payload.(User))
//	    return nil
//	})
//	defer off()
//
//	d.Fire(ctx, "user.registered", user)        // fire-and-forget
//	d.FireWait(ctx, "user.registered", user)    // block until every listener settled
//
// Listener failures — error returns, panics, and eventual failures of
// asynchronous listeners — never surface to the caller that fired the event.
// They are routed to the dispatcher's ErrorHandler, or dropped if none was
// configured. Emission is a best-effort broadcast, not a transaction.
package event

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Listener receives one emission's payload. A nil return means the listener
// completed. A non-nil error, or a panic (recovered and converted to an
// error), is routed to the dispatcher's ErrorHandler.
//
// The context is the one passed to Fire/FireWait; listeners that spawn or
// perform cancellable work should honour it.
type Listener func(ctx context.Context, payload any) error

// Hook observes dispatch lifecycle points. Implementations must be safe for
// concurrent use. pkg/metrics provides a Prometheus-backed Hook.
type Hook interface {
	// Emitted is called once per emission that found listeners.
	Emitted(event string, listeners int)
	// ListenerError is called once per failed listener invocation.
	ListenerError(event string)
	// Settled is called once every listener of an emission has finished.
	Settled(event string, elapsed time.Duration)
}

// subscription is one registered listener. Unsubscribe handles capture the
// *subscription pointer, so removal matches by identity: two behaviourally
// identical listeners registered separately remain independently removable.
type subscription struct {
	fn    Listener
	async bool
	once  bool
}

// Dispatcher owns a registry of named listeners. Construct with New; the
// zero value is not usable.
//
// All methods are safe for concurrent use. Emission iterates over a snapshot
// of the listener list taken when it starts, so listeners may register or
// unsubscribe mid-emission without skipping or duplicating invocations
// already in flight.
type Dispatcher struct {
	mu       sync.RWMutex
	registry map[string][]*subscription

	// Set at construction, immutable afterwards.
	errh ErrorHandler
	hook Hook
}

// ─── Registration ─────────────────────────────────────────────────────────────

// On registers a synchronous listener for event. It is invoked inline, in
// registration order, during every emission of that name.
//
// The returned handle removes this registration. Calling it again, or after
// the listener was already removed by Flush or a Once firing, is a no-op.
func (d *Dispatcher) On(event string, fn Listener) func() {
	return d.subscribe(event, &subscription{fn: fn})
}

// OnAsync registers an asynchronous listener for event. Emission starts it
// on its own goroutine (still in registration order relative to the other
// listeners) and tracks its completion: FireWait blocks until it settles,
// and its error reaches the ErrorHandler either way.
func (d *Dispatcher) OnAsync(event string, fn Listener) func() {
	return d.subscribe(event, &subscription{fn: fn, async: true})
}

// Once registers a synchronous listener that is removed after its first
// invocation.
func (d *Dispatcher) Once(event string, fn Listener) func() {
	return d.subscribe(event, &subscription{fn: fn, once: true})
}

// OnceAsync registers an asynchronous listener that is removed after its
// first invocation.
func (d *Dispatcher) OnceAsync(event string, fn Listener) func() {
	return d.subscribe(event, &subscription{fn: fn, async: true, once: true})
}

func (d *Dispatcher) subscribe(event string, sub *subscription) func() {
	d.mu.Lock()
	d.registry[event] = append(d.registry[event], sub)
	d.mu.Unlock()

	return func() { d.remove(event, sub) }
}

// remove deletes sub from event's listener list by identity. When the list
// becomes empty the registry entry is deleted outright, so stale names never
// accumulate. Not finding sub (second unsubscribe call, Flush already ran,
// the entry was deleted and recreated) is a no-op.
func (d *Dispatcher) remove(event string, sub *subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := d.registry[event]
	for i, s := range subs {
		if s != sub {
			continue
		}
		if len(subs) == 1 {
			delete(d.registry, event)
			return
		}
		rest := make([]*subscription, 0, len(subs)-1)
		rest = append(rest, subs[:i]...)
		rest = append(rest, subs[i+1:]...)
		d.registry[event] = rest
		return
	}
}

// ─── Emission ─────────────────────────────────────────────────────────────────

// Fire triggers every listener currently registered for event and returns as
// soon as all of them have been started: synchronous listeners have run to
// completion, asynchronous ones are in flight. Firing a name with no
// listeners is a no-op, not an error.
//
// Pending asynchronous work is not dropped: a detached goroutine drains it
// and routes any eventual failure to the ErrorHandler once it settles.
func (d *Dispatcher) Fire(ctx context.Context, event string, payload any) {
	start := time.Now()
	pending, n := d.invoke(ctx, event, payload)
	if n == 0 {
		return
	}
	if len(pending) == 0 {
		d.settled(event, start)
		return
	}
	go func() {
		d.join(event, pending)
		d.settled(event, start)
	}()
}

// FireWait is like Fire but blocks until every listener has settled,
// successes and failures alike. It always returns normally: one bad listener
// must neither cancel the wait for the others nor mask that the broadcast
// completed.
func (d *Dispatcher) FireWait(ctx context.Context, event string, payload any) {
	start := time.Now()
	pending, n := d.invoke(ctx, event, payload)
	if n == 0 {
		return
	}
	d.join(event, pending)
	d.settled(event, start)
}

// invoke runs one emission's listener loop over a snapshot of the registry.
// Synchronous listeners run inline; asynchronous ones are started eagerly,
// each on its own goroutine, and their pending completions returned for the
// caller to join. Returns the number of listeners in the snapshot.
func (d *Dispatcher) invoke(ctx context.Context, event string, payload any) ([]<-chan error, int) {
	subs := d.snapshot(event)
	if len(subs) == 0 {
		return nil, 0
	}
	if d.hook != nil {
		d.hook.Emitted(event, len(subs))
	}

	var pending []<-chan error
	for _, sub := range subs {
		if sub.once {
			// Removed before invocation so a reentrant Fire from inside
			// the listener cannot run it twice.
			d.remove(event, sub)
		}
		if sub.async {
			ch := make(chan error, 1)
			go func(fn Listener) { ch <- call(ctx, fn, payload) }(sub.fn)
			pending = append(pending, ch)
			continue
		}
		if err := call(ctx, sub.fn, payload); err != nil {
			d.report(event, err)
		}
	}
	return pending, len(subs)
}

// join waits for every pending asynchronous result, settle-all: a failure is
// reported and the wait moves on to the next result rather than aborting.
func (d *Dispatcher) join(event string, pending []<-chan error) {
	for _, ch := range pending {
		if err := <-ch; err != nil {
			d.report(event, err)
		}
	}
}

func (d *Dispatcher) settled(event string, start time.Time) {
	if d.hook != nil {
		d.hook.Settled(event, time.Since(start))
	}
}

// snapshot copies event's current listener list so the emission loop never
// iterates the live slice.
func (d *Dispatcher) snapshot(event string) []*subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()

	subs := d.registry[event]
	if len(subs) == 0 {
		return nil
	}
	out := make([]*subscription, len(subs))
	copy(out, subs)
	return out
}

// call runs one listener, converting a panic into an error so a bad listener
// cannot take down the emitter.
func call(ctx context.Context, fn Listener, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event: listener panic: %v", r)
		}
	}()
	return fn(ctx, payload)
}

// ─── Introspection ────────────────────────────────────────────────────────────

// ListenerCount reports how many listeners are currently registered for event.
func (d *Dispatcher) ListenerCount(event string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.registry[event])
}

// HasListeners reports whether at least one listener is registered for event.
func (d *Dispatcher) HasListeners(event string) bool {
	return d.ListenerCount(event) > 0
}

// EventNames returns the names that currently have listeners, sorted.
func (d *Dispatcher) EventNames() []string {
	d.mu.RLock()
	names := make([]string, 0, len(d.registry))
	for name := range d.registry {
		names = append(names, name)
	}
	d.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Flush removes all listeners for all events (useful in tests).
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registry = map[string][]*subscription{}
}

// Package eventtest provides helpers for testing code that fires or listens
// to dhwani events: a thread-safe payload Recorder and an error-handler
// spy. Both are safe to share between emitting goroutines and test
// assertions.
package eventtest

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/dhwani/pkg/event"
)

// Recorder collects the payloads delivered to its Listener, in delivery
// order.
type Recorder struct {
	mu       sync.Mutex
	payloads []any
}

// Listener returns an event.Listener that records each payload and succeeds.
func (r *Recorder) Listener() event.Listener {
	return func(_ context.Context, payload any) error {
		r.append(payload)
		return nil
	}
}

// ListenerErr returns an event.Listener that records each payload and then
// fails with err.
func (r *Recorder) ListenerErr(err error) event.Listener {
	return func(_ context.Context, payload any) error {
		r.append(payload)
		return err
	}
}

func (r *Recorder) append(payload any) {
	r.mu.Lock()
	r.payloads = append(r.payloads, payload)
	r.mu.Unlock()
}

// Payloads returns a copy of everything recorded so far.
func (r *Recorder) Payloads() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.payloads))
	copy(out, r.payloads)
	return out
}

// Len reports how many payloads have been recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.payloads = nil
	r.mu.Unlock()
}

// Errors is an event.ErrorHandler spy: it records every (err, event) pair it
// receives.
type Errors struct {
	mu    sync.Mutex
	calls []ErrorCall
}

// ErrorCall is one recorded handler invocation.
type ErrorCall struct {
	Err   error
	Event string
}

// Handler returns the event.ErrorHandler that records into e.
func (e *Errors) Handler() event.ErrorHandler {
	return func(err error, name string) {
		e.mu.Lock()
		e.calls = append(e.calls, ErrorCall{Err: err, Event: name})
		e.mu.Unlock()
	}
}

// Calls returns a copy of every recorded invocation.
func (e *Errors) Calls() []ErrorCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ErrorCall, len(e.calls))
	copy(out, e.calls)
	return out
}

// Len reports how many failures have been recorded.
func (e *Errors) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

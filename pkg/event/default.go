package event

import "context"

// Default is the package-level dispatcher behind Listen/Fire/FireWait. It
// logs listener failures; construct your own with New() for a different
// error policy.
var Default = New(WithErrorHandler(LogErrors))

// Listen registers a synchronous listener on the Default dispatcher.
func Listen(event string, fn Listener) func() {
	return Default.On(event, fn)
}

// ListenAsync registers an asynchronous listener on the Default dispatcher.
func ListenAsync(event string, fn Listener) func() {
	return Default.OnAsync(event, fn)
}

// ListenOnce registers a one-shot listener on the Default dispatcher.
func ListenOnce(event string, fn Listener) func() {
	return Default.Once(event, fn)
}

// Fire dispatches an event on the Default dispatcher without waiting for
// asynchronous listeners to complete.
func Fire(ctx context.Context, event string, payload any) {
	Default.Fire(ctx, event, payload)
}

// FireWait dispatches an event on the Default dispatcher and blocks until
// every listener has settled.
func FireWait(ctx context.Context, event string, payload any) {
	Default.FireWait(ctx, event, payload)
}

// Flush removes all listeners from the Default dispatcher (useful in tests).
func Flush() {
	Default.Flush()
}

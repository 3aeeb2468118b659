package event

import (
	"fmt"

	"github.com/shashiranjanraj/dhwani/pkg/logger"
)

// ErrorHandler receives every listener failure for a dispatcher, normalised
// to (err, event): synchronous error returns, recovered panics, and eventual
// failures of asynchronous listeners all arrive through the same hook, and
// none of them ever surface as a failure of Fire or FireWait.
type ErrorHandler func(err error, event string)

// LogErrors is a ready-made ErrorHandler that records failures through the
// structured logger.
func LogErrors(err error, event string) {
	logger.Error("event listener failed", "event", event, "error", err)
}

// report routes one listener failure to the configured handler. The handler
// runs guarded: if it panics, the panic is logged and discarded so it cannot
// corrupt the emission's bookkeeping or the settle-all join.
func (d *Dispatcher) report(event string, err error) {
	if d.hook != nil {
		d.hook.ListenerError(event)
	}
	if d.errh == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("event error handler panicked",
				"event", event,
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()
	d.errh(err, event)
}

package event

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// New creates an empty Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: map[string][]*subscription{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithErrorHandler sets the handler that receives every listener failure.
// Without one, failures are dropped silently — that is the documented
// default policy, not a bug; callers who care must supply a handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(d *Dispatcher) { d.errh = h }
}

// WithHook attaches a dispatch lifecycle observer, e.g. metrics.Hook().
func WithHook(h Hook) Option {
	return func(d *Dispatcher) { d.hook = h }
}

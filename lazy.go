package inertia

// LazyProp is a prop that is never part of the first page load.
//
// Its callback only runs when a partial reload names the prop in
// X-Inertia-Partial-Data, which lets expensive data be fetched on demand:
//
//	f.Render("Users/Index", inertia.P(
//	    "users", users,
//	    "stats", inertia.Lazy(func(ctx context.Context) (any, error) {
//	        return store.Stats(ctx)
//	    }),
//	))
//
// The callback is invoked through the factory's Invoker, so any signature
// the Invoker can satisfy is accepted.
type LazyProp struct {
	callback any
}

// Lazy wraps callback into a LazyProp.
func Lazy(callback any) *LazyProp {
	return &LazyProp{callback: callback}
}

// Callback returns the wrapped callable.
func (l *LazyProp) Callback() any {
	return l.callback
}

// Awaiter is a value that becomes available later. Resolution blocks on
// Await with no timeout; a value that never completes stalls the response.
type Awaiter interface {
	Await() (any, error)
}

// Future is an Awaiter computed on its own goroutine.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// Async starts fn immediately and returns a Future for its result:
//
//	"feed", inertia.Async(func() (any, error) { return client.Feed(id) }),
func Async(fn func() (any, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Await blocks until the computation finishes.
func (f *Future) Await() (any, error) {
	<-f.done
	return f.value, f.err
}

package inertia

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sync"
)

// Invoker calls prop callbacks and version resolvers, supplying their
// parameters.
//
// r is nil when no request is in flight (version resolution at render
// time).
type Invoker interface {
	Invoke(ctx context.Context, r *http.Request, fn any) (any, error)
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	requestType = reflect.TypeOf((*http.Request)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Container is the default Invoker. It fills callback parameters by type:
//   - context.Context: the resolution context
//   - *http.Request: the current request
//   - anything registered with Provide, by exact type first, then the
//     first provided value implementing an interface parameter
//
// Supported results are (), (T), (error) and (T, error).
//
//	c := inertia.NewContainer()
//	c.Provide(store)
//	f := inertia.New(inertia.WithInvoker(c))
//
//	inertia.Lazy(func(ctx context.Context, s *Store) ([]User, error) {
//	    return s.Users(ctx)
//	})
type Container struct {
	mu     sync.RWMutex
	values map[reflect.Type]reflect.Value
	order  []reflect.Type
}

// NewContainer creates an empty Container.
func NewContainer() *Container {
	return &Container{values: make(map[reflect.Type]reflect.Value)}
}

// Provide registers values for injection, keyed by their dynamic type.
// A later value of the same type replaces the earlier one.
func (c *Container) Provide(values ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range values {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			continue
		}
		if _, exists := c.values[rv.Type()]; !exists {
			c.order = append(c.order, rv.Type())
		}
		c.values[rv.Type()] = rv
	}
}

// Invoke calls fn with injected parameters.
func (c *Container) Invoke(ctx context.Context, r *http.Request, fn any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Common shapes skip reflection
	switch f := fn.(type) {
	case func() any:
		return f(), nil
	case func() (any, error):
		return f()
	case func(context.Context) (any, error):
		return f(ctx)
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, fn)
	}
	if v.IsNil() {
		return nil, nil
	}

	t := v.Type()
	numIn := t.NumIn()
	if t.IsVariadic() {
		numIn--
	}

	args := make([]reflect.Value, numIn)
	for i := 0; i < numIn; i++ {
		arg, ok := c.lookup(ctx, r, t.In(i))
		if !ok {
			return nil, fmt.Errorf("%w: %s (parameter %d of %s)", ErrUnresolvableParam, t.In(i), i, t)
		}
		args[i] = arg
	}

	return unpackResults(t, v.Call(args))
}

func (c *Container) lookup(ctx context.Context, r *http.Request, t reflect.Type) (reflect.Value, bool) {
	switch t {
	case contextType:
		return reflect.ValueOf(&ctx).Elem(), true
	case requestType:
		if r == nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(r), true
	}

	if c == nil {
		return reflect.Value{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if v, ok := c.values[t]; ok {
		return v, true
	}
	if t.Kind() == reflect.Interface {
		for _, vt := range c.order {
			if vt.Implements(t) {
				return c.values[vt], true
			}
		}
	}
	return reflect.Value{}, false
}

func unpackResults(t reflect.Type, out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0) == errorType {
			err, _ := out[0].Interface().(error)
			return nil, err
		}
		return out[0].Interface(), nil
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("%w: second result of %s must be error", ErrNotCallable, t)
		}
		err, _ := out[1].Interface().(error)
		if err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
	return nil, fmt.Errorf("%w: %s returns %d values", ErrNotCallable, t, len(out))
}

// isCallable reports whether v is a non-nil func that is not an
// http.Handler. Handler funcs are treated as resources.
func isCallable(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(http.Handler); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

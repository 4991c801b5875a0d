package inertia

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

var mappableType = reflect.TypeOf((*Mappable)(nil)).Elem()

// resolver turns a selected props mapping into plain serializable data.
//
// Each value goes through these steps in order, each feeding the next:
//  1. callable: invoked through the Invoker
//  2. *LazyProp: its callback invoked through the Invoker
//  3. Awaiter: blocked on
//  4. http.Handler: served against the current request, JSON body decoded
//  5. Mappable (other than *Props): converted with ToMap
//  6. mapping or slice: walked recursively. Typed slices, arrays and
//     string-keyed maps are walked too when their elements can hold
//     values the earlier steps act on.
//
// Dotted keys are expanded into nested Props only at the top level.
// Input mappings are never modified.
type resolver struct {
	ctx      context.Context
	req      *http.Request
	invoker  Invoker
	maxDepth int
}

func (rs *resolver) resolve(props *Props) (*Props, error) {
	return rs.resolveProps(props, true, 0)
}

func (rs *resolver) resolveProps(props *Props, unpackDots bool, depth int) (*Props, error) {
	if err := rs.checkDepth(depth); err != nil {
		return nil, err
	}

	out := NewProps()
	var err error
	props.Each(func(key string, value any) {
		if err != nil {
			return
		}
		var resolved any
		resolved, err = rs.resolveValue(value, depth)
		if err != nil {
			err = fmt.Errorf("prop %q: %w", key, err)
			return
		}
		if unpackDots && strings.Contains(key, ".") {
			out.SetPath(key, resolved)
		} else {
			out.Set(key, resolved)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (rs *resolver) resolveMap(m map[string]any, depth int) (map[string]any, error) {
	if err := rs.checkDepth(depth); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(m))
	for _, key := range sortedKeys(m) {
		resolved, err := rs.resolveValue(m[key], depth)
		if err != nil {
			return nil, fmt.Errorf("prop %q: %w", key, err)
		}
		out[key] = resolved
	}
	return out, nil
}

func (rs *resolver) resolveSlice(s []any, depth int) ([]any, error) {
	if err := rs.checkDepth(depth); err != nil {
		return nil, err
	}

	out := make([]any, len(s))
	for i, value := range s {
		resolved, err := rs.resolveValue(value, depth)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = resolved
	}
	return out, nil
}

func (rs *resolver) resolveValue(value any, depth int) (any, error) {
	var err error

	if isCallable(value) {
		if value, err = rs.invoker.Invoke(rs.ctx, rs.req, value); err != nil {
			return nil, err
		}
	}

	if lazy, ok := value.(*LazyProp); ok {
		if value, err = rs.invoker.Invoke(rs.ctx, rs.req, lazy.callback); err != nil {
			return nil, err
		}
	}

	if a, ok := value.(Awaiter); ok {
		if value, err = a.Await(); err != nil {
			return nil, err
		}
	}

	if h, ok := value.(http.Handler); ok {
		if value, err = rs.resource(h); err != nil {
			return nil, err
		}
	}

	if m, ok := value.(Mappable); ok {
		if _, isProps := value.(*Props); !isProps {
			value = m.ToMap()
		}
	}

	switch v := value.(type) {
	case *Props:
		return rs.resolveProps(v, false, depth+1)
	case map[string]any:
		return rs.resolveMap(v, depth+1)
	case []any:
		return rs.resolveSlice(v, depth+1)
	}
	return rs.resolveTyped(value, depth)
}

// resolveTyped walks slices, arrays and string-keyed maps of concrete
// element types, such as []User or []*Props. Collections of plain data
// are returned unchanged.
func (rs *resolver) resolveTyped(value any, depth int) (any, error) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if (rv.Kind() == reflect.Slice && rv.IsNil()) || !mayResolve(rv.Type().Elem()) {
			return value, nil
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return rs.resolveSlice(items, depth+1)

	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String || !mayResolve(rv.Type().Elem()) {
			return value, nil
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return rs.resolveMap(m, depth+1)
	}
	return value, nil
}

// mayResolve reports whether values of type t can need resolution.
func mayResolve(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Array:
		return true
	case reflect.Struct:
		return t.Implements(mappableType)
	}
	return false
}

// resource serves h against the current request and decodes its JSON body,
// keeping key order and exact numbers.
func (rs *resolver) resource(h http.Handler) (any, error) {
	resp := capture(h, rs.req)
	if len(resp.Body) == 0 {
		return nil, nil
	}
	data, err := decodeJSON(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode resource: %w", err)
	}
	return data, nil
}

func (rs *resolver) checkDepth(depth int) error {
	if rs.maxDepth > 0 && depth > rs.maxDepth {
		return fmt.Errorf("%w (%d)", ErrPropDepthExceeded, rs.maxDepth)
	}
	return nil
}

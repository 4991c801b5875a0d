package inertia

import (
	"fmt"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mappable is implemented by values that convert themselves into a plain
// mapping before they are merged or serialized.
//
// Props values implementing Mappable are converted during resolution and
// the resulting map is walked like any other nested mapping:
//
//	func (u User) ToMap() map[string]any {
//	    return map[string]any{"id": u.ID, "name": u.Name}
//	}
type Mappable interface {
	ToMap() map[string]any
}

// Map is a plain prop mapping. Keys are visited in sorted order when it is
// converted to Props; use Props directly when order matters.
type Map map[string]any

// ToMap implements Mappable.
func (m Map) ToMap() map[string]any {
	return m
}

// Props is an insertion-ordered mapping of prop names to values.
//
// The zero value is ready to use. Keys keep the position of their first
// insertion; setting an existing key replaces the value in place. Props
// marshals to a JSON object in key order.
type Props struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewProps returns an empty Props.
func NewProps() *Props {
	return &Props{m: orderedmap.New[string, any]()}
}

// P builds Props from alternating key/value pairs:
//
//	inertia.P("user", user, "can", inertia.P("edit", true))
//
// Panics if a key is not a string or a value is missing.
func P(kv ...any) *Props {
	if len(kv)%2 != 0 {
		panic("inertia: P requires key/value pairs")
	}
	p := NewProps()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("inertia: P key at position %d is %T, not string", i, kv[i]))
		}
		p.Set(key, kv[i+1])
	}
	return p
}

// PropsFrom copies a map into Props, inserting keys in sorted order.
func PropsFrom(values map[string]any) *Props {
	p := NewProps()
	for _, key := range sortedKeys(values) {
		p.Set(key, values[key])
	}
	return p
}

// toProps converts a Mappable into a fresh Props. *Props inputs are cloned
// so their order is kept.
func toProps(values Mappable) *Props {
	switch v := values.(type) {
	case nil:
		return NewProps()
	case *Props:
		return v.Clone()
	}
	return PropsFrom(values.ToMap())
}

func (p *Props) om() *orderedmap.OrderedMap[string, any] {
	if p.m == nil {
		p.m = orderedmap.New[string, any]()
	}
	return p.m
}

// Set stores value under key and returns p for chaining.
func (p *Props) Set(key string, value any) *Props {
	p.om().Set(key, value)
	return p
}

// Get returns the value stored under the literal key.
func (p *Props) Get(key string) (any, bool) {
	if p == nil || p.m == nil {
		return nil, false
	}
	return p.m.Get(key)
}

// Has reports whether the literal key is present.
func (p *Props) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Delete removes key.
func (p *Props) Delete(key string) {
	if p == nil || p.m == nil {
		return
	}
	p.m.Delete(key)
}

// Len returns the number of top-level keys.
func (p *Props) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Keys returns the top-level keys in order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, p.Len())
	p.Each(func(key string, _ any) {
		keys = append(keys, key)
	})
	return keys
}

// Each calls fn for every key/value pair in order.
func (p *Props) Each(fn func(key string, value any)) {
	if p == nil || p.m == nil {
		return
	}
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns a shallow copy of p.
func (p *Props) Clone() *Props {
	c := NewProps()
	p.Each(func(key string, value any) {
		c.Set(key, value)
	})
	return c
}

// Merge copies every pair of other into p. Existing keys are overwritten
// in place, new keys are appended. No dotted-path expansion happens.
func (p *Props) Merge(other *Props) *Props {
	other.Each(func(key string, value any) {
		p.Set(key, value)
	})
	return p
}

// Only returns a copy holding just the listed literal keys, in p's order.
// Keys not present in p are skipped.
func (p *Props) Only(keys []string) *Props {
	want := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		want[key] = struct{}{}
	}
	out := NewProps()
	p.Each(func(key string, value any) {
		if _, ok := want[key]; ok {
			out.Set(key, value)
		}
	})
	return out
}

// ToMap implements Mappable. The copy is shallow: nested Props stay Props.
func (p *Props) ToMap() map[string]any {
	out := make(map[string]any, p.Len())
	p.Each(func(key string, value any) {
		out[key] = value
	})
	return out
}

// SetPath assigns value at a dotted path, creating nested Props for every
// missing or non-mapping segment:
//
//	p.SetPath("user.name", "Bo") // {"user": {"name": "Bo"}}
//
// A nested map[string]any on the path is replaced by a Props copy rather
// than mutated.
func (p *Props) SetPath(path string, value any) {
	segments := strings.Split(path, ".")
	current := p
	for _, segment := range segments[:len(segments)-1] {
		existing, _ := current.Get(segment)
		var next *Props
		switch v := existing.(type) {
		case *Props:
			next = v
		case map[string]any:
			next = PropsFrom(v)
			current.Set(segment, next)
		default:
			next = NewProps()
			current.Set(segment, next)
		}
		current = next
	}
	current.Set(segments[len(segments)-1], value)
}

// GetPath looks up a dotted path. A literal key equal to path wins over
// the nested lookup.
func (p *Props) GetPath(path string) (any, bool) {
	if v, ok := p.Get(path); ok {
		return v, true
	}
	var current any = p
	for _, segment := range strings.Split(path, ".") {
		switch v := current.(type) {
		case *Props:
			next, ok := v.Get(segment)
			if !ok {
				return nil, false
			}
			current = next
		case map[string]any:
			next, ok := v[segment]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// MarshalJSON encodes p as a JSON object in key order.
func (p *Props) MarshalJSON() ([]byte, error) {
	if p == nil || p.m == nil || p.m.Len() == 0 {
		return []byte("{}"), nil
	}
	return p.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping its key order. Nested
// objects decode to *Props and numbers to json.Number.
func (p *Props) UnmarshalJSON(data []byte) error {
	v, err := decodeJSON(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Props)
	if !ok {
		return fmt.Errorf("inertia: cannot decode %T into props", v)
	}
	p.m = decoded.om()
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package inertia

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

var errInvalidJSON = errors.New("invalid JSON")

// decodeJSON decodes data keeping what a round trip through any would
// lose: objects become *Props in document order and numbers stay
// json.Number, so large integers are written back exactly.
func decodeJSON(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, errInvalidJSON
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, err
	}
	return decodeValue(value, typ)
}

func decodeValue(data []byte, typ jsonparser.ValueType) (any, error) {
	switch typ {
	case jsonparser.Object:
		props := NewProps()
		err := jsonparser.ObjectEach(data, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
			v, err := decodeValue(value, vt)
			if err != nil {
				return err
			}
			props.Set(string(key), v)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return props, nil

	case jsonparser.Array:
		items := []any{}
		var inner error
		_, err := jsonparser.ArrayEach(data, func(value []byte, vt jsonparser.ValueType, _ int, _ error) {
			if inner != nil {
				return
			}
			var v any
			if v, inner = decodeValue(value, vt); inner == nil {
				items = append(items, v)
			}
		})
		if err == nil {
			err = inner
		}
		if err != nil {
			return nil, err
		}
		return items, nil

	case jsonparser.String:
		return jsonparser.ParseString(data)
	case jsonparser.Number:
		return json.Number(data), nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(data)
	case jsonparser.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unexpected value %q", errInvalidJSON, data)
}

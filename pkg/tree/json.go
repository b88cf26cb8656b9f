package tree

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeJSON reads one OMM document from r. The top-level JSON value
// must be an object. Object key order is preserved by walking the token
// stream directly instead of unmarshalling into a Go map, which would
// discard it.
func DecodeJSON(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("decode json: document root must be an object, got %v", tok)
	}

	n, err := decodeJSONObject(dec)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return n, nil
}

// decodeJSONObject consumes key/value pairs up to and including the
// closing brace. The opening brace has already been consumed.
func decodeJSONObject(dec *json.Decoder) (*Node, error) {
	n := Block()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", tok)
		}
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		n.Set(key, v)
	}
	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeJSONArray(dec *json.Decoder) (Value, error) {
	var items []Value
	for dec.More() {
		v, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	// Closing bracket.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return List(items...), nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n, err := decodeJSONObject(dec)
			if err != nil {
				return Value{}, err
			}
			return NodeValue(n), nil
		case '[':
			return decodeJSONArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return numberLit(f, t.String()), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

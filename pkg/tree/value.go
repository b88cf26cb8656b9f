package tree

import "strconv"

// Kind is the value type discriminator.
type Kind uint8

const (
	KindNull   Kind = iota // Absent / explicit null
	KindString             // Text
	KindBool               // Boolean attribute
	KindNumber             // Numeric scalar
	KindNode               // Nested node or style block
	KindList               // Sequence of values
	KindOpaque             // Host value the compiler never interprets
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindNode:
		return "Node"
	case KindList:
		return "List"
	case KindOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// Value is one tagged value in a Node. The zero Value is null.
type Value struct {
	kind   Kind
	str    string
	b      bool
	num    float64
	numRaw string
	node   *Node
	list   []Value
	opaque any
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool wraps a bool.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number wraps a float64. The value serializes via strconv with the
// shortest representation; no unit is ever appended.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// numberLit wraps a number while keeping its source literal, so that
// serialized output matches the input document byte for byte.
func numberLit(f float64, raw string) Value {
	return Value{kind: KindNumber, num: f, numRaw: raw}
}

// NodeValue wraps a nested node.
func NodeValue(n *Node) Value {
	return Value{kind: KindNode, node: n}
}

// List wraps a sequence of values.
func List(vs ...Value) Value {
	return Value{kind: KindList, list: vs}
}

// Opaque wraps an arbitrary host value. The compiler detects opaque
// values and rejects them with a diagnostic instead of interpreting them.
func Opaque(v any) Value {
	return Value{kind: KindOpaque, opaque: v}
}

// Kind returns the value's type discriminator.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the string payload. Only meaningful for KindString.
func (v Value) Str() string {
	return v.str
}

// BoolVal returns the bool payload. Only meaningful for KindBool.
func (v Value) BoolVal() bool {
	return v.b
}

// Node returns the nested node, or nil for other kinds.
func (v Value) Node() *Node {
	return v.node
}

// Items returns the list payload, or nil for other kinds.
func (v Value) Items() []Value {
	return v.list
}

// OpaqueVal returns the wrapped host value, or nil for other kinds.
func (v Value) OpaqueVal() any {
	return v.opaque
}

// Text returns the value rendered as attribute/declaration text and
// whether the value is stringifiable at all. Nodes, lists, nulls and
// opaque values are not.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindBool:
		if v.b {
			return "true", true
		}
		return "false", true
	case KindNumber:
		if v.numRaw != "" {
			return v.numRaw, true
		}
		return strconv.FormatFloat(v.num, 'g', -1, 64), true
	default:
		return "", false
	}
}

package tree

// Node is one ordered object in an OMM document. Keys keep insertion
// order; the first key is the element's tag and carries the children
// payload. Mutation is only supported while building — the compiler
// treats nodes as read-only inputs.
type Node struct {
	keys []string
	idx  map[string]int
	vals []Value
}

// New creates a node whose first key is tag with a null (childless)
// payload. Use Text, Children or Child to attach content.
func New(tag string) *Node {
	n := &Node{idx: make(map[string]int)}
	n.Set(tag, Null())
	return n
}

// Set inserts key with value v, or replaces the value if the key is
// already present. Replacement keeps the key's original position, so a
// later write can never change which key is the tag. Returns the node
// for chaining.
func (n *Node) Set(key string, v Value) *Node {
	if n.idx == nil {
		n.idx = make(map[string]int)
	}
	if i, ok := n.idx[key]; ok {
		n.vals[i] = v
		return n
	}
	n.idx[key] = len(n.keys)
	n.keys = append(n.keys, key)
	n.vals = append(n.vals, v)
	return n
}

// Attr sets a string attribute.
func (n *Node) Attr(key, value string) *Node {
	return n.Set(key, String(value))
}

// Text sets the tag key's payload to a text-shorthand child.
func (n *Node) Text(s string) *Node {
	if len(n.keys) == 0 {
		return n
	}
	n.vals[0] = String(s)
	return n
}

// Children sets the tag key's payload to a sequence of child nodes.
func (n *Node) Children(children ...*Node) *Node {
	if len(n.keys) == 0 {
		return n
	}
	vs := make([]Value, len(children))
	for i, c := range children {
		vs[i] = NodeValue(c)
	}
	n.vals[0] = List(vs...)
	return n
}

// Child appends one child node to the tag key's payload, converting a
// text or single-node payload into a sequence as needed.
func (n *Node) Child(c *Node) *Node {
	if len(n.keys) == 0 {
		return n
	}
	cur := n.vals[0]
	switch cur.Kind() {
	case KindNull:
		n.vals[0] = List(NodeValue(c))
	case KindList:
		n.vals[0] = List(append(cur.Items(), NodeValue(c))...)
	default:
		n.vals[0] = List(cur, NodeValue(c))
	}
	return n
}

// Style sets the reserved style key to the given style block.
func (n *Node) Style(block *Node) *Node {
	return n.Set("style", NodeValue(block))
}

// Block creates an empty node for use as a style block. A style block
// has no tag; every key is a declaration or a nested "&" selector.
func Block() *Node {
	return &Node{idx: make(map[string]int)}
}

// Decl adds a plain declaration to a style block.
func (n *Node) Decl(property, value string) *Node {
	return n.Set(property, String(value))
}

// Nested adds a nested selector rule ("&:hover", "& > li", ...) to a
// style block.
func (n *Node) Nested(selector string, block *Node) *Node {
	return n.Set(selector, NodeValue(block))
}

// Len returns the number of keys.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.keys)
}

// At returns the key and value at position i.
func (n *Node) At(i int) (string, Value) {
	return n.keys[i], n.vals[i]
}

// Get returns the value for key and whether the key exists.
func (n *Node) Get(key string) (Value, bool) {
	if n == nil {
		return Value{}, false
	}
	i, ok := n.idx[key]
	if !ok {
		return Value{}, false
	}
	return n.vals[i], true
}

// First returns the first key and its value. ok is false for an empty
// node.
func (n *Node) First() (key string, v Value, ok bool) {
	if n.Len() == 0 {
		return "", Value{}, false
	}
	return n.keys[0], n.vals[0], true
}

// Keys returns a copy of the key list in insertion order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

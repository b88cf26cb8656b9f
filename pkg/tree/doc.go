// Package tree defines the ordered object model consumed by the OMM compiler.
//
// An OMM document is an ordered mapping: the first key names the HTML tag and
// carries the children payload, every other key is an attribute, and the
// reserved "style" key holds a (possibly nested) style block. Because the
// first key is load-bearing, Node preserves insertion order — a plain Go map
// cannot represent a document.
//
// Values are a tagged variant (string, bool, number, node, list, null,
// opaque). Opaque wraps host values the compiler cannot interpret, such as
// functions; they are carried through unresolved and rejected
// deterministically at compile time rather than invoked.
//
// Decoders are provided for JSON (token stream, key order preserved) and
// YAML (via yaml.v3 document nodes, which keep mapping order).
package tree

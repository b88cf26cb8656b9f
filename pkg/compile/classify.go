package compile

import (
	"strings"

	"github.com/omm-dev/omm/internal/errors"
	"github.com/omm-dev/omm/pkg/tree"
)

// attribute is one renderable key on an element, in source order.
type attribute struct {
	key   string
	value tree.Value
}

// classified is the decomposition of one node: its tag, the children
// payload carried by the tag key, the attribute list, and the style
// block if the reserved style key is present.
type classified struct {
	tag      string
	children tree.Value
	attrs    []attribute
	style    *tree.Node

	// styleInvalid marks a style key whose value is not a block; the
	// serializer records a diagnostic and renders without styling.
	styleInvalid bool
}

// classify decomposes a node. The first key in insertion order is
// always the tag; if that key is empty or reserved the node is
// malformed — the classifier fails rather than guessing a tag from a
// later key.
func classify(n *tree.Node) (*classified, *errors.Error) {
	tag, payload, ok := n.First()
	if !ok {
		return nil, errors.New("E101").WithDetail("the object has no keys")
	}
	if tag == "" || tag == "style" || strings.HasPrefix(tag, "_") || strings.HasPrefix(tag, "&") {
		return nil, errors.New("E101").
			WithDetail("the first key " + quoteKey(tag) + " is reserved and cannot be a tag").
			WithSuggestion("Make the element's tag the first key of the object")
	}

	c := &classified{tag: tag, children: payload}
	for i := 1; i < n.Len(); i++ {
		key, v := n.At(i)
		switch {
		case key == "style":
			switch {
			case v.Kind() == tree.KindNode:
				c.style = v.Node()
			case v.IsNull():
				// Explicit null style is the same as no style.
			default:
				c.styleInvalid = true
			}
		case strings.HasPrefix(key, "_"):
			// Custom metadata: passed through untouched, never rendered.
		default:
			c.attrs = append(c.attrs, attribute{key: key, value: v})
		}
	}
	return c, nil
}

func quoteKey(key string) string {
	if key == "" {
		return "(empty)"
	}
	return `"` + key + `"`
}

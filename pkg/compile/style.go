package compile

import (
	"strings"

	"github.com/omm-dev/omm/pkg/tree"
)

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// DeclarationSet is the flattened, order-preserving declaration list
// for exactly one selector.
type DeclarationSet []Declaration

// canonical returns the stable serialized form used for structural
// equality: "prop:value;" pairs joined in encounter order.
func (ds DeclarationSet) canonical() string {
	var b strings.Builder
	for _, d := range ds {
		b.WriteString(d.Property)
		b.WriteString(":")
		b.WriteString(d.Value)
		b.WriteString(";")
	}
	return b.String()
}

// equal reports ordered structural equality.
func (ds DeclarationSet) equal(other DeclarationSet) bool {
	if len(ds) != len(other) {
		return false
	}
	for i := range ds {
		if ds[i] != other[i] {
			return false
		}
	}
	return true
}

// StyleRule is one flattened CSS rule.
type StyleRule struct {
	Selector     string
	Declarations DeclarationSet
}

// nestedRule pairs a nested-selector token ("&:hover", "& > li") with
// its block, in encounter order.
type nestedRule struct {
	token string
	block *tree.Node
}

// splitBlock separates a style block into its own declarations and its
// nested "&" rules, both in encounter order. Values are serialized as
// given — no unit inference, no coercion. A duplicate property cannot
// occur here because Node.Set applies last-write-wins while the block
// is built.
//
// Keys that are neither plain declarations nor "&" selectors with block
// values are reported through bad and skipped.
func splitBlock(block *tree.Node, bad func(key string, v tree.Value)) (DeclarationSet, []nestedRule) {
	var own DeclarationSet
	var nested []nestedRule
	for i := 0; i < block.Len(); i++ {
		key, v := block.At(i)
		if strings.HasPrefix(key, "&") {
			if v.Kind() != tree.KindNode {
				bad(key, v)
				continue
			}
			nested = append(nested, nestedRule{token: key, block: v.Node()})
			continue
		}
		text, ok := v.Text()
		if !ok {
			bad(key, v)
			continue
		}
		own = append(own, Declaration{Property: key, Value: text})
	}
	return own, nested
}

// flattenNested expands a nested rule against its immediate parent's
// resolved selector and emits the resulting rules depth-first, each
// level substituting "&" with the selector resolved one level up.
func flattenNested(rule nestedRule, parentSelector string, emit func(StyleRule), bad func(key string, v tree.Value)) {
	selector := strings.ReplaceAll(rule.token, "&", parentSelector)
	own, nested := splitBlock(rule.block, bad)
	if len(own) > 0 {
		emit(StyleRule{Selector: selector, Declarations: own})
	}
	for _, child := range nested {
		flattenNested(child, selector, emit, bad)
	}
}

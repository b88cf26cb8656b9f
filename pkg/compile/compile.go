package compile

import (
	"strconv"
	"strings"

	"github.com/omm-dev/omm/internal/errors"
	"github.com/omm-dev/omm/pkg/tree"
)

// malformedPlaceholder is rendered where a malformed subtree would have
// been, so one bad node does not blank the rest of the page.
const malformedPlaceholder = "<!-- omm:malformed-node -->"

// Result holds the two outputs of a compile call and every diagnostic
// recorded along the way. The caller owns all three.
type Result struct {
	HTML        string
	CSS         string
	Diagnostics []Diagnostic
}

// Compile walks root once, depth-first, and returns the serialized HTML
// and the deduplicated stylesheet. Node-local problems are contained as
// diagnostics; a nil or malformed root and a tree that exceeds the
// depth limit (or contains a cycle) abort the call with no outputs.
func Compile(root *tree.Node, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if root == nil {
		return nil, errors.New("E101").WithDetail("the document root is nil")
	}
	if _, cerr := classify(root); cerr != nil {
		// A malformed root prevents safe traversal; there is no
		// enclosing element to contain the placeholder.
		return nil, cerr
	}

	c := &compiler{
		opts:   opts,
		void:   voidSet(opts),
		alloc:  newClassAllocator(opts.ClassPrefix),
		sheet:  newStylesheet(),
		onPath: make(map[*tree.Node]bool),
	}
	if err := c.renderNode(root, "", -1, 0); err != nil {
		return nil, err
	}
	return &Result{
		HTML:        c.buf.String(),
		CSS:         c.sheet.render(),
		Diagnostics: c.diags,
	}, nil
}

// compiler holds the call-scoped state of one walk.
type compiler struct {
	opts   Options
	void   map[string]bool
	alloc  *classAllocator
	sheet  *stylesheet
	diags  []Diagnostic
	onPath map[*tree.Node]bool
	buf    strings.Builder
}

// renderNode renders one element node. parentPath locates the parent
// for diagnostics; idx is the node's position in a sequence payload, or
// -1 outside one. The returned error is non-nil only for conditions
// that abort the whole call.
func (c *compiler) renderNode(n *tree.Node, parentPath string, idx, depth int) error {
	if depth >= c.opts.MaxDepth {
		return errors.New("E104").
			WithPath("", parentPath).
			WithDetail("the tree is deeper than " + strconv.Itoa(c.opts.MaxDepth) + " levels")
	}
	if c.onPath[n] {
		return errors.New("E104").
			WithPath("", parentPath).
			WithDetail("the tree contains a cycle")
	}
	c.onPath[n] = true
	defer delete(c.onPath, n)

	cls, cerr := classify(n)
	if cerr != nil {
		path := childPath(parentPath, "?", idx)
		c.diags = append(c.diags, newDiagnostic("E101", path, "%s", cerr.Detail))
		c.writePretty(depth)
		c.buf.WriteString(malformedPlaceholder)
		return nil
	}
	path := childPath(parentPath, cls.tag, idx)

	// Styling first: the generated class has to exist before the open
	// tag is written.
	if cls.styleInvalid {
		c.diags = append(c.diags, newDiagnostic("E102", path, "style value is not a block"))
	}
	var className string
	if cls.style != nil && cls.style.Len() > 0 {
		className = c.compileStyle(cls.style, path)
	}

	c.writePretty(depth)
	c.buf.WriteString("<")
	c.buf.WriteString(cls.tag)

	classEmitted := false
	for _, a := range cls.attrs {
		if a.key == "class" && className != "" {
			c.writeMergedClass(a.value, className, path)
			classEmitted = true
			continue
		}
		c.writeAttr(a, path)
	}
	if className != "" && !classEmitted {
		c.buf.WriteString(` class="`)
		c.buf.WriteString(escapeAttr(className))
		c.buf.WriteString(`"`)
	}

	// Void elements have no children and no closing tag.
	if cls.children.IsNull() {
		if c.void[cls.tag] {
			c.buf.WriteString(">")
			return nil
		}
		c.buf.WriteString("></")
		c.buf.WriteString(cls.tag)
		c.buf.WriteString(">")
		return nil
	}

	c.buf.WriteString(">")
	hadElements, err := c.renderChildren(cls.children, path, depth)
	if err != nil {
		return err
	}
	if c.opts.Pretty && hadElements {
		c.buf.WriteString("\n")
		c.writeIndent(depth)
	}
	c.buf.WriteString("</")
	c.buf.WriteString(cls.tag)
	c.buf.WriteString(">")
	return nil
}

// renderChildren renders a non-null children payload. It reports
// whether any child element was rendered, which drives pretty-mode
// closing indentation.
func (c *compiler) renderChildren(payload tree.Value, path string, depth int) (bool, error) {
	switch payload.Kind() {
	case tree.KindString:
		c.writeText(payload.Str())
		return false, nil
	case tree.KindNumber, tree.KindBool:
		text, _ := payload.Text()
		c.writeText(text)
		return false, nil
	case tree.KindNode:
		return true, c.renderNode(payload.Node(), path, -1, depth+1)
	case tree.KindList:
		hadElements := false
		for i, item := range payload.Items() {
			switch item.Kind() {
			case tree.KindNode:
				hadElements = true
				if err := c.renderNode(item.Node(), path, i, depth+1); err != nil {
					return hadElements, err
				}
			case tree.KindString:
				c.writeText(item.Str())
			case tree.KindNumber, tree.KindBool:
				text, _ := item.Text()
				c.writeText(text)
			case tree.KindNull:
				// Nothing to render.
			case tree.KindOpaque:
				c.diags = append(c.diags, newDiagnostic("E103", path, "child %d is an opaque host value", i))
			}
		}
		return hadElements, nil
	case tree.KindOpaque:
		c.diags = append(c.diags, newDiagnostic("E103", path, "children payload is an opaque host value"))
		return false, nil
	default:
		return false, nil
	}
}

// compileStyle flattens one style block, allocates the element's class
// name, and feeds every resulting rule to the stylesheet. Returns the
// class name, or "" when the block turned out to carry nothing usable.
func (c *compiler) compileStyle(block *tree.Node, path string) string {
	bad := func(key string, v tree.Value) {
		c.diags = append(c.diags, newDiagnostic("E102", path, "style key %q has an unsupported %s value", key, strings.ToLower(v.Kind().String())))
	}
	own, nested := splitBlock(block, bad)
	if len(own) == 0 && len(nested) == 0 {
		return ""
	}

	// The class is keyed on the own declaration set; nested rules hang
	// off the same base class.
	name := c.alloc.allocate(own)
	selector := "." + name
	if len(own) > 0 {
		c.addRule(StyleRule{Selector: selector, Declarations: own}, path)
	}
	for _, nr := range nested {
		flattenNested(nr, selector, func(r StyleRule) {
			c.addRule(r, path)
		}, bad)
	}
	return name
}

func (c *compiler) addRule(rule StyleRule, path string) {
	selector, suffixed := c.sheet.add(rule)
	if suffixed {
		c.diags = append(c.diags, newDiagnostic("W201", path, "selector %q written as %q", rule.Selector, selector))
	}
}

// writeMergedClass emits the class attribute with the user's classes
// first and the generated class last.
func (c *compiler) writeMergedClass(user tree.Value, className, path string) {
	text, ok := user.Text()
	if !ok {
		c.diags = append(c.diags, newDiagnostic("E102", path, `attribute "class" has an unsupported value`))
		text = ""
	}
	merged := strings.TrimSpace(text + " " + className)
	c.buf.WriteString(` class="`)
	c.buf.WriteString(escapeAttr(merged))
	c.buf.WriteString(`"`)
}

// writeAttr emits one attribute. Names are emitted verbatim; values
// are always escaped. Booleans follow HTML boolean-attribute rules:
// true renders the bare name, false renders nothing.
func (c *compiler) writeAttr(a attribute, path string) {
	switch a.value.Kind() {
	case tree.KindBool:
		if a.value.BoolVal() {
			c.buf.WriteString(" ")
			c.buf.WriteString(a.key)
		}
	case tree.KindString, tree.KindNumber:
		text, _ := a.value.Text()
		c.buf.WriteString(" ")
		c.buf.WriteString(a.key)
		c.buf.WriteString(`="`)
		c.buf.WriteString(escapeAttr(text))
		c.buf.WriteString(`"`)
	case tree.KindNull:
		// Absent value: nothing to render.
	default:
		c.diags = append(c.diags, newDiagnostic("E102", path, "attribute %q has an unsupported %s value", a.key, strings.ToLower(a.value.Kind().String())))
	}
}

// writeText emits a text node, escaped unless the caller opted out for
// trusted content.
func (c *compiler) writeText(s string) {
	if c.opts.DisableEscaping {
		c.buf.WriteString(s)
		return
	}
	c.buf.WriteString(escapeText(s))
}

// writePretty writes the pretty-mode line break and indentation before
// an element opens. No-op when pretty printing is off or at the
// document start.
func (c *compiler) writePretty(depth int) {
	if !c.opts.Pretty || depth == 0 {
		return
	}
	c.buf.WriteString("\n")
	c.writeIndent(depth)
}

func (c *compiler) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		c.buf.WriteString(c.opts.Indent)
	}
}

// childPath extends a diagnostic path with one element.
func childPath(parent, tag string, idx int) string {
	path := tag
	if parent != "" {
		path = parent + "/" + tag
	}
	if idx >= 0 {
		path += "[" + strconv.Itoa(idx) + "]"
	}
	return path
}

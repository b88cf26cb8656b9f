package compile

// DefaultClassPrefix is the prefix for generated class names.
const DefaultClassPrefix = "omm-"

// DefaultMaxDepth bounds the tree walk when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

// Options configures a compile call. The zero value is ready to use.
type Options struct {
	// ClassPrefix is prepended to generated class names.
	// Defaults to "omm-".
	ClassPrefix string

	// DisableEscaping turns off HTML escaping of text content.
	// Escaping is on by default; this exists for callers rendering
	// trusted content only. Attribute values are always escaped.
	DisableEscaping bool

	// VoidTags replaces the built-in void element set when non-empty.
	VoidTags []string

	// ExtraVoidTags extends the void element set without replacing it.
	ExtraVoidTags []string

	// MaxDepth is the maximum tree depth before the walk fails with a
	// recursion limit error. Defaults to 256.
	MaxDepth int

	// Pretty enables indented HTML output. Should only be used in
	// development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty
	// mode. Defaults to two spaces.
	Indent string
}

// withDefaults fills zero-valued fields.
func (o Options) withDefaults() Options {
	if o.ClassPrefix == "" {
		o.ClassPrefix = DefaultClassPrefix
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Indent == "" {
		o.Indent = "  "
	}
	return o
}

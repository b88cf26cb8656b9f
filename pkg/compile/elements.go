package compile

// defaultVoidTags are elements that cannot have children and have no
// closing tag. These are self-closing in HTML5.
var defaultVoidTags = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// voidSet builds the effective void element set for one compile call
// from the options: VoidTags replaces the default set, ExtraVoidTags
// extends whichever base is in effect.
func voidSet(opts Options) map[string]bool {
	base := defaultVoidTags
	if len(opts.VoidTags) > 0 {
		base = make(map[string]bool, len(opts.VoidTags))
		for _, tag := range opts.VoidTags {
			base[tag] = true
		}
	}
	if len(opts.ExtraVoidTags) == 0 {
		return base
	}
	set := make(map[string]bool, len(base)+len(opts.ExtraVoidTags))
	for tag := range base {
		set[tag] = true
	}
	for _, tag := range opts.ExtraVoidTags {
		set[tag] = true
	}
	return set
}

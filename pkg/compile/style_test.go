package compile

import (
	"testing"

	"github.com/omm-dev/omm/pkg/tree"
)

func TestSplitBlock(t *testing.T) {
	block := tree.Block().
		Decl("color", "red").
		Nested("&:hover", tree.Block().Decl("color", "blue")).
		Decl("margin", "0")

	own, nested := splitBlock(block, func(string, tree.Value) {
		t.Fatal("no bad keys expected")
	})

	if len(own) != 2 {
		t.Fatalf("got %d own declarations, want 2", len(own))
	}
	if own[0] != (Declaration{"color", "red"}) || own[1] != (Declaration{"margin", "0"}) {
		t.Errorf("own declarations out of order: %v", own)
	}
	if len(nested) != 1 || nested[0].token != "&:hover" {
		t.Errorf("got nested %v, want one &:hover rule", nested)
	}
}

func TestSplitBlockReportsBadKeys(t *testing.T) {
	block := tree.Block().
		Decl("color", "red").
		Set("&:hover", tree.String("not a block")).
		Set("width", tree.Opaque(struct{}{}))

	var bad []string
	own, nested := splitBlock(block, func(key string, _ tree.Value) {
		bad = append(bad, key)
	})

	if len(own) != 1 {
		t.Errorf("got %d own declarations, want 1", len(own))
	}
	if len(nested) != 0 {
		t.Errorf("got %d nested rules, want 0", len(nested))
	}
	if len(bad) != 2 {
		t.Errorf("got bad keys %v, want 2", bad)
	}
}

func TestCanonicalForm(t *testing.T) {
	ds := DeclarationSet{{"color", "red"}, {"margin", "4px"}}
	if got := ds.canonical(); got != "color:red;margin:4px;" {
		t.Errorf("got %q", got)
	}
	if DeclarationSet(nil).canonical() != "" {
		t.Error("empty set should canonicalize to empty string")
	}
}

func TestDeclarationSetEqual(t *testing.T) {
	a := DeclarationSet{{"color", "red"}}
	b := DeclarationSet{{"color", "red"}}
	c := DeclarationSet{{"color", "blue"}}
	d := DeclarationSet{{"color", "red"}, {"margin", "0"}}

	if !a.equal(b) {
		t.Error("identical sets should be equal")
	}
	if a.equal(c) || a.equal(d) {
		t.Error("different sets should not be equal")
	}
}

func TestClassAllocatorReuse(t *testing.T) {
	alloc := newClassAllocator("omm-")

	first := alloc.allocate(DeclarationSet{{"color", "red"}})
	again := alloc.allocate(DeclarationSet{{"color", "red"}})
	other := alloc.allocate(DeclarationSet{{"color", "blue"}})

	if first != "omm-1" {
		t.Errorf("got %q, want omm-1", first)
	}
	if again != first {
		t.Errorf("structurally equal sets should reuse the name, got %q and %q", first, again)
	}
	if other == first {
		t.Error("distinct sets must not share a name")
	}
}

func TestStylesheetDedup(t *testing.T) {
	s := newStylesheet()
	rule := StyleRule{Selector: ".a", Declarations: DeclarationSet{{"color", "red"}}}

	if sel, suffixed := s.add(rule); sel != ".a" || suffixed {
		t.Errorf("first add: got (%q, %v)", sel, suffixed)
	}
	if sel, suffixed := s.add(rule); sel != ".a" || suffixed {
		t.Errorf("duplicate add: got (%q, %v)", sel, suffixed)
	}
	if len(s.rules) != 1 {
		t.Errorf("got %d rules, want 1", len(s.rules))
	}
}

func TestStylesheetConflictSuffixing(t *testing.T) {
	s := newStylesheet()
	s.add(StyleRule{Selector: ".a", Declarations: DeclarationSet{{"color", "red"}}})

	sel, suffixed := s.add(StyleRule{Selector: ".a", Declarations: DeclarationSet{{"color", "blue"}}})
	if sel != ".a-2" || !suffixed {
		t.Errorf("got (%q, %v), want (.a-2, true)", sel, suffixed)
	}

	// The same conflicting rule again resolves to the existing suffix.
	sel, suffixed = s.add(StyleRule{Selector: ".a", Declarations: DeclarationSet{{"color", "blue"}}})
	if sel != ".a-2" || !suffixed {
		t.Errorf("repeat conflict: got (%q, %v), want (.a-2, true)", sel, suffixed)
	}
	if len(s.rules) != 2 {
		t.Errorf("got %d rules, want 2", len(s.rules))
	}
}

func TestStylesheetRender(t *testing.T) {
	s := newStylesheet()
	s.add(StyleRule{Selector: ".a", Declarations: DeclarationSet{{"color", "red"}, {"margin", "0"}}})
	s.add(StyleRule{Selector: ".a:hover", Declarations: DeclarationSet{{"color", "blue"}}})

	want := ".a { color: red; margin: 0; }\n.a:hover { color: blue; }"
	if got := s.render(); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

package compile

import (
	"strings"
	"testing"

	"github.com/omm-dev/omm/pkg/tree"
)

func mustCompile(t *testing.T, root *tree.Node, opts Options) *Result {
	t.Helper()
	res, err := Compile(root, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestCompileTextShorthand(t *testing.T) {
	root := tree.New("p").Text("Hello").Attr("class", "note")
	res := mustCompile(t, root, Options{})

	if res.HTML != `<p class="note">Hello</p>` {
		t.Errorf("got %q", res.HTML)
	}
	if res.CSS != "" {
		t.Errorf("no style key, stylesheet should be empty, got %q", res.CSS)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestCompileVoidElement(t *testing.T) {
	root := tree.New("img").Attr("src", "a.png")
	res := mustCompile(t, root, Options{})

	if res.HTML != `<img src="a.png">` {
		t.Errorf("got %q, want %q", res.HTML, `<img src="a.png">`)
	}
	if strings.Contains(res.HTML, "</img>") {
		t.Error("void element should have no closing tag")
	}
}

func TestCompileVoidElements(t *testing.T) {
	for _, tag := range []string{"area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "param", "source", "track", "wbr"} {
		t.Run(tag, func(t *testing.T) {
			res := mustCompile(t, tree.New(tag), Options{})
			if res.HTML != "<"+tag+">" {
				t.Errorf("got %q, want %q", res.HTML, "<"+tag+">")
			}
		})
	}
}

func TestCompileEmptyNonVoidElement(t *testing.T) {
	res := mustCompile(t, tree.New("div"), Options{})
	if res.HTML != "<div></div>" {
		t.Errorf("got %q, want explicit open/close pair", res.HTML)
	}
}

func TestCompileExtraVoidTags(t *testing.T) {
	res := mustCompile(t, tree.New("icon"), Options{ExtraVoidTags: []string{"icon"}})
	if res.HTML != "<icon>" {
		t.Errorf("got %q, want %q", res.HTML, "<icon>")
	}

	// The default set still applies alongside the extras.
	res = mustCompile(t, tree.New("br"), Options{ExtraVoidTags: []string{"icon"}})
	if res.HTML != "<br>" {
		t.Errorf("got %q, want %q", res.HTML, "<br>")
	}
}

func TestCompileVoidTagsReplaceDefaults(t *testing.T) {
	res := mustCompile(t, tree.New("img"), Options{VoidTags: []string{"only"}})
	if res.HTML != "<img></img>" {
		t.Errorf("replaced void set should not include img, got %q", res.HTML)
	}
}

func TestCompileNestedStyleFlattening(t *testing.T) {
	root := tree.New("div").Style(
		tree.Block().
			Decl("color", "red").
			Nested("&:hover", tree.Block().Decl("color", "blue")),
	)
	res := mustCompile(t, root, Options{})

	if res.HTML != `<div class="omm-1"></div>` {
		t.Errorf("got %q", res.HTML)
	}
	want := ".omm-1 { color: red; }\n.omm-1:hover { color: blue; }"
	if res.CSS != want {
		t.Errorf("got CSS %q, want %q", res.CSS, want)
	}
}

func TestCompileDeeplyNestedSelectors(t *testing.T) {
	root := tree.New("nav").Style(
		tree.Block().
			Decl("display", "flex").
			Nested("& > ul", tree.Block().
				Decl("margin", "0").
				Nested("&:hover", tree.Block().Decl("background", "gray"))),
	)
	res := mustCompile(t, root, Options{})

	for _, want := range []string{
		".omm-1 { display: flex; }",
		".omm-1 > ul { margin: 0; }",
		".omm-1 > ul:hover { background: gray; }",
	} {
		if !strings.Contains(res.CSS, want) {
			t.Errorf("CSS missing %q, got %q", want, res.CSS)
		}
	}
}

func TestCompileClassDeduplication(t *testing.T) {
	shared := func() *tree.Node {
		return tree.Block().Decl("color", "red").Decl("margin", "4px")
	}
	root := tree.New("div").Children(
		tree.New("p").Text("one").Style(shared()),
		tree.New("p").Text("two").Style(shared()),
	)
	res := mustCompile(t, root, Options{})

	if strings.Count(res.HTML, `class="omm-1"`) != 2 {
		t.Errorf("identical styles should share one class, got %q", res.HTML)
	}
	if strings.Count(res.CSS, "omm-1") != 1 {
		t.Errorf("stylesheet should hold one copy of the rule, got %q", res.CSS)
	}
}

func TestCompileDistinctStylesDistinctClasses(t *testing.T) {
	root := tree.New("div").Children(
		tree.New("p").Text("one").Style(tree.Block().Decl("color", "red")),
		tree.New("p").Text("two").Style(tree.Block().Decl("color", "blue")),
	)
	res := mustCompile(t, root, Options{})

	if !strings.Contains(res.HTML, `class="omm-1"`) || !strings.Contains(res.HTML, `class="omm-2"`) {
		t.Errorf("distinct styles should get distinct classes, got %q", res.HTML)
	}
}

func TestCompileOrderSensitiveEquality(t *testing.T) {
	// Same pairs in a different order are a different declaration set.
	root := tree.New("div").Children(
		tree.New("p").Style(tree.Block().Decl("color", "red").Decl("margin", "0")),
		tree.New("p").Style(tree.Block().Decl("margin", "0").Decl("color", "red")),
	)
	res := mustCompile(t, root, Options{})

	if !strings.Contains(res.HTML, "omm-2") {
		t.Errorf("reordered declarations should allocate a new class, got %q", res.HTML)
	}
}

func TestCompileUserClassMerge(t *testing.T) {
	root := tree.New("p").Text("x").
		Attr("class", "note wide").
		Style(tree.Block().Decl("color", "red"))
	res := mustCompile(t, root, Options{})

	if !strings.Contains(res.HTML, `class="note wide omm-1"`) {
		t.Errorf("generated class should come last, got %q", res.HTML)
	}
}

func TestCompileEmptyStyleBlock(t *testing.T) {
	root := tree.New("p").Text("x").Style(tree.Block())
	res := mustCompile(t, root, Options{})

	if strings.Contains(res.HTML, "class") {
		t.Errorf("empty style block should contribute no class, got %q", res.HTML)
	}
	if res.CSS != "" {
		t.Errorf("empty style block should add no rules, got %q", res.CSS)
	}
}

func TestCompileNestedOnlyStyleBlock(t *testing.T) {
	root := tree.New("a").Text("link").Style(
		tree.Block().Nested("&:hover", tree.Block().Decl("color", "blue")),
	)
	res := mustCompile(t, root, Options{})

	if !strings.Contains(res.HTML, `class="omm-1"`) {
		t.Errorf("nested-only block still needs the base class, got %q", res.HTML)
	}
	if res.CSS != ".omm-1:hover { color: blue; }" {
		t.Errorf("got CSS %q", res.CSS)
	}
}

func TestCompileStyleConflictSuffix(t *testing.T) {
	root := tree.New("div").Children(
		tree.New("a").Text("x").Style(tree.Block().
			Decl("color", "red").
			Nested("&:hover", tree.Block().Decl("color", "blue"))),
		tree.New("a").Text("y").Style(tree.Block().
			Decl("color", "red").
			Nested("&:hover", tree.Block().Decl("color", "green"))),
	)
	res := mustCompile(t, root, Options{})

	if !strings.Contains(res.CSS, ".omm-1:hover-2 { color: green; }") {
		t.Errorf("conflicting rule should be suffixed, not dropped, got %q", res.CSS)
	}

	var conflict bool
	for _, d := range res.Diagnostics {
		if d.Code == "W201" {
			conflict = true
			if d.Severity != SeverityWarning {
				t.Errorf("W201 severity = %v, want warning", d.Severity)
			}
		}
	}
	if !conflict {
		t.Error("expected a W201 diagnostic for the suffixed selector")
	}
}

func TestCompileClassPrefix(t *testing.T) {
	root := tree.New("p").Style(tree.Block().Decl("color", "red"))
	res := mustCompile(t, root, Options{ClassPrefix: "x-"})

	if !strings.Contains(res.HTML, `class="x-1"`) {
		t.Errorf("got %q", res.HTML)
	}
	if !strings.Contains(res.CSS, ".x-1 {") {
		t.Errorf("got %q", res.CSS)
	}
}

func TestCompileNoStyleNoClassToken(t *testing.T) {
	root := tree.New("div").Children(
		tree.New("h1").Text("Title"),
		tree.New("p").Text("Body"),
	)
	res := mustCompile(t, root, Options{})

	if strings.Contains(res.HTML, DefaultClassPrefix) {
		t.Errorf("unstyled tree should contain no generated class, got %q", res.HTML)
	}
	if res.CSS != "" {
		t.Errorf("unstyled tree should produce no stylesheet, got %q", res.CSS)
	}
}

func TestCompileTextEscaping(t *testing.T) {
	root := tree.New("p").Text(`<script>alert("x") & more</script>`)
	res := mustCompile(t, root, Options{})

	for _, raw := range []string{"<script>", `"x"`, "& more"} {
		if strings.Contains(res.HTML[3:len(res.HTML)-4], raw) {
			t.Errorf("raw %q leaked into output %q", raw, res.HTML)
		}
	}
	if !strings.Contains(res.HTML, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag, got %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "&amp; more") {
		t.Errorf("expected escaped ampersand, got %q", res.HTML)
	}
}

func TestCompileAttributeEscaping(t *testing.T) {
	root := tree.New("a").Text("x").Attr("title", `say "hi" <now>`)
	res := mustCompile(t, root, Options{})

	if !strings.Contains(res.HTML, `title="say &quot;hi&quot; &lt;now&gt;"`) {
		t.Errorf("got %q", res.HTML)
	}
}

func TestCompileDisableEscaping(t *testing.T) {
	root := tree.New("div").Text("<b>bold</b>")
	res := mustCompile(t, root, Options{DisableEscaping: true})

	if res.HTML != "<div><b>bold</b></div>" {
		t.Errorf("got %q", res.HTML)
	}

	// Attribute values stay escaped regardless.
	root = tree.New("a").Text("x").Attr("title", `"q"`)
	res = mustCompile(t, root, Options{DisableEscaping: true})
	if !strings.Contains(res.HTML, "&quot;q&quot;") {
		t.Errorf("attribute escaping must not be disabled, got %q", res.HTML)
	}
}

func TestCompileBooleanAttributes(t *testing.T) {
	root := tree.New("input").
		Set("disabled", tree.Bool(true)).
		Set("checked", tree.Bool(false)).
		Attr("name", "q")
	res := mustCompile(t, root, Options{})

	if res.HTML != `<input disabled name="q">` {
		t.Errorf("got %q", res.HTML)
	}
}

func TestCompileNumberAttribute(t *testing.T) {
	root := tree.New("input").Set("maxlength", tree.Number(80))
	res := mustCompile(t, root, Options{})

	if res.HTML != `<input maxlength="80">` {
		t.Errorf("got %q", res.HTML)
	}
}

func TestCompileMetadataKeysNeverRendered(t *testing.T) {
	root := tree.New("div").Text("x").
		Set("_meta", tree.String("internal")).
		Set("_hooks", tree.Opaque(func() {}))
	res := mustCompile(t, root, Options{})

	if strings.Contains(res.HTML, "meta") || strings.Contains(res.HTML, "internal") {
		t.Errorf("metadata keys leaked into output %q", res.HTML)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("metadata keys should not produce diagnostics, got %v", res.Diagnostics)
	}
}

func TestCompileMalformedRootAborts(t *testing.T) {
	tests := []struct {
		name string
		root *tree.Node
	}{
		{"nil root", nil},
		{"empty node", tree.Block()},
		{"style first", tree.Block().Style(tree.Block().Decl("color", "red"))},
		{"metadata first", tree.Block().Set("_x", tree.String("y"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compile(tt.root, Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if res != nil {
				t.Error("failed compile should return no outputs")
			}
		})
	}
}

func TestCompileMalformedChildContained(t *testing.T) {
	root := tree.New("div").Children(
		tree.New("p").Text("before"),
		tree.Block().Set("style", tree.NodeValue(tree.Block())),
		tree.New("p").Text("after"),
	)
	res := mustCompile(t, root, Options{})

	if !strings.Contains(res.HTML, malformedPlaceholder) {
		t.Errorf("expected placeholder comment, got %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "<p>before</p>") || !strings.Contains(res.HTML, "<p>after</p>") {
		t.Errorf("siblings of a malformed node must still render, got %q", res.HTML)
	}

	found := false
	for _, d := range res.Diagnostics {
		if d.Code == "E101" && d.Severity == SeverityError {
			found = true
			if !strings.Contains(d.Path, "div/?") {
				t.Errorf("diagnostic path = %q, want div/?[...]", d.Path)
			}
		}
	}
	if !found {
		t.Error("expected an E101 diagnostic")
	}
}

func TestCompileOpaqueAttributeDropped(t *testing.T) {
	root := tree.New("button").Text("Go").
		Set("onclick", tree.Opaque(func() {}))
	res := mustCompile(t, root, Options{})

	if res.HTML != "<button>Go</button>" {
		t.Errorf("opaque attribute should be dropped, got %q", res.HTML)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != "E102" {
		t.Errorf("expected one E102 diagnostic, got %v", res.Diagnostics)
	}
}

func TestCompileOpaqueChildrenSkipped(t *testing.T) {
	section := tree.New("section")
	section.Set("section", tree.Opaque(func() {}))
	root := tree.New("div").Children(section, tree.New("p").Text("ok"))

	res := mustCompile(t, root, Options{})
	if !strings.Contains(res.HTML, "<section></section>") {
		t.Errorf("element with opaque children should render childless, got %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "<p>ok</p>") {
		t.Errorf("sibling rendering must continue, got %q", res.HTML)
	}

	found := false
	for _, d := range res.Diagnostics {
		if d.Code == "E103" {
			found = true
		}
	}
	if !found {
		t.Error("expected an E103 diagnostic")
	}
}

func TestCompileOpaqueListItemSkipped(t *testing.T) {
	root := tree.New("div")
	root.Set("div", tree.List(
		tree.NodeValue(tree.New("p").Text("one")),
		tree.Opaque(42),
		tree.NodeValue(tree.New("p").Text("two")),
	))
	res := mustCompile(t, root, Options{})

	if !strings.Contains(res.HTML, "<p>one</p>") || !strings.Contains(res.HTML, "<p>two</p>") {
		t.Errorf("items after an opaque one must still render, got %q", res.HTML)
	}
}

func TestCompileRecursionLimit(t *testing.T) {
	node := tree.New("div")
	for i := 0; i < 20; i++ {
		node = tree.New("div").Children(node)
	}

	res, err := Compile(node, Options{MaxDepth: 10})
	if err == nil {
		t.Fatal("expected recursion limit error")
	}
	if res != nil {
		t.Error("failed compile should return no outputs")
	}
	if !strings.Contains(err.Error(), "E104") {
		t.Errorf("got %v, want E104", err)
	}
}

func TestCompileCycleDetected(t *testing.T) {
	n := tree.New("div")
	n.Child(n)

	_, err := Compile(n, Options{})
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !strings.Contains(err.Error(), "E104") {
		t.Errorf("got %v, want E104", err)
	}
}

func TestCompileIdempotence(t *testing.T) {
	build := func() *tree.Node {
		return tree.New("div").
			Attr("id", "page").
			Style(tree.Block().Decl("padding", "8px")).
			Children(
				tree.New("h1").Text("Title").Style(tree.Block().Decl("color", "navy")),
				tree.New("ul").Children(
					tree.New("li").Text("a"),
					tree.New("li").Text("b"),
				),
			)
	}

	first := mustCompile(t, build(), Options{})
	second := mustCompile(t, build(), Options{})

	if first.HTML != second.HTML {
		t.Errorf("HTML differs between runs:\n%q\n%q", first.HTML, second.HTML)
	}
	if first.CSS != second.CSS {
		t.Errorf("CSS differs between runs:\n%q\n%q", first.CSS, second.CSS)
	}
}

func TestCompileDeepDocument(t *testing.T) {
	root := tree.New("div").Children(
		tree.New("h1").Text("Title"),
		tree.New("p").Text("Intro").Style(tree.Block().Decl("color", "gray")),
		tree.New("ul").Children(
			tree.New("li").Text("one"),
			tree.New("li").Text("two"),
			tree.New("li").Text("three"),
		),
	)
	res := mustCompile(t, root, Options{})

	want := `<div><h1>Title</h1><p class="omm-1">Intro</p><ul><li>one</li><li>two</li><li>three</li></ul></div>`
	if res.HTML != want {
		t.Errorf("got %q\nwant %q", res.HTML, want)
	}
	if res.CSS != ".omm-1 { color: gray; }" {
		t.Errorf("stylesheet should hold rules only for styled nodes, got %q", res.CSS)
	}
}

func TestCompileSingleNodeChild(t *testing.T) {
	root := tree.New("div")
	root.Set("div", tree.NodeValue(tree.New("p").Text("only")))
	res := mustCompile(t, root, Options{})

	if res.HTML != "<div><p>only</p></div>" {
		t.Errorf("got %q", res.HTML)
	}
}

func TestCompileLastPropertyWriteWins(t *testing.T) {
	block := tree.Block().Decl("color", "red")
	block.Decl("color", "blue")
	root := tree.New("p").Style(block)
	res := mustCompile(t, root, Options{})

	if res.CSS != ".omm-1 { color: blue; }" {
		t.Errorf("got %q", res.CSS)
	}
}

func TestCompilePretty(t *testing.T) {
	root := tree.New("div").Children(
		tree.New("h1").Text("Title"),
		tree.New("p").Text("Body"),
	)
	res := mustCompile(t, root, Options{Pretty: true})

	want := "<div>\n  <h1>Title</h1>\n  <p>Body</p>\n</div>"
	if res.HTML != want {
		t.Errorf("got %q\nwant %q", res.HTML, want)
	}
}

func TestCompileInvalidStyleValue(t *testing.T) {
	root := tree.New("p").Text("x").Set("style", tree.String("color:red"))
	res := mustCompile(t, root, Options{})

	if res.HTML != "<p>x</p>" {
		t.Errorf("non-block style should render without styling, got %q", res.HTML)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != "E102" {
		t.Errorf("expected one E102 diagnostic, got %v", res.Diagnostics)
	}
}

func BenchmarkCompile(b *testing.B) {
	items := make([]*tree.Node, 50)
	for i := range items {
		items[i] = tree.New("li").Text("item").Style(tree.Block().Decl("color", "red"))
	}
	root := tree.New("div").Children(
		tree.New("h1").Text("Title"),
		tree.New("ul").Children(items...),
	)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(root, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

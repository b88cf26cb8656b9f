package tree

import "testing"

func TestNodeInsertionOrder(t *testing.T) {
	n := New("div").
		Attr("id", "main").
		Attr("class", "box").
		Attr("title", "hi")

	want := []string{"div", "id", "class", "title"}
	got := n.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNodeSetReplaceKeepsPosition(t *testing.T) {
	n := New("div").Attr("id", "a").Attr("class", "x")
	n.Attr("id", "b")

	keys := n.Keys()
	if keys[1] != "id" {
		t.Errorf("id moved to position %v, want 1", keys)
	}
	v, ok := n.Get("id")
	if !ok || v.Str() != "b" {
		t.Errorf("got %q, want %q", v.Str(), "b")
	}
	if n.Len() != 3 {
		t.Errorf("got %d keys, want 3", n.Len())
	}
}

func TestNodeFirst(t *testing.T) {
	n := New("p").Text("hello")
	key, v, ok := n.First()
	if !ok {
		t.Fatal("First returned ok=false")
	}
	if key != "p" {
		t.Errorf("got tag %q, want %q", key, "p")
	}
	if v.Kind() != KindString || v.Str() != "hello" {
		t.Errorf("got payload %v %q, want text %q", v.Kind(), v.Str(), "hello")
	}

	empty := Block()
	if _, _, ok := empty.First(); ok {
		t.Error("First on empty node should return ok=false")
	}
}

func TestNodeChildAppends(t *testing.T) {
	n := New("ul")
	n.Child(New("li").Text("one"))
	n.Child(New("li").Text("two"))

	_, payload, _ := n.First()
	if payload.Kind() != KindList {
		t.Fatalf("got payload kind %v, want List", payload.Kind())
	}
	if len(payload.Items()) != 2 {
		t.Errorf("got %d children, want 2", len(payload.Items()))
	}
}

func TestNodeChildConvertsTextPayload(t *testing.T) {
	n := New("p").Text("intro")
	n.Child(New("em").Text("loud"))

	_, payload, _ := n.First()
	items := payload.Items()
	if len(items) != 2 {
		t.Fatalf("got %d children, want 2", len(items))
	}
	if items[0].Kind() != KindString {
		t.Errorf("first child should stay text, got %v", items[0].Kind())
	}
	if items[1].Kind() != KindNode {
		t.Errorf("second child should be a node, got %v", items[1].Kind())
	}
}

func TestValueText(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   string
		wantOK bool
	}{
		{"string", String("abc"), "abc", true},
		{"bool true", Bool(true), "true", true},
		{"bool false", Bool(false), "false", true},
		{"number", Number(1.5), "1.5", true},
		{"number literal preserved", numberLit(2, "2.0"), "2.0", true},
		{"null", Null(), "", false},
		{"node", NodeValue(New("div")), "", false},
		{"list", List(String("a")), "", false},
		{"opaque", Opaque(func() {}), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Text()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

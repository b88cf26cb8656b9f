// Package compile turns an OMM node tree into an HTML string and a
// deduplicated stylesheet in a single depth-first walk.
//
// Each compile call is self-contained: class names are allocated and
// style rules collected per call, so identical trees always produce
// byte-identical output and independent calls may run concurrently.
//
// Node-local problems (a malformed subtree, an opaque attribute or
// children payload) never abort the walk — they become placeholder
// comments or dropped values plus diagnostics in the Result. Only a
// malformed root or a tree too deep (or cyclic) to traverse safely
// fails the whole call.
//
//	root, _ := tree.DecodeJSON(src)
//	res, err := compile.Compile(root, compile.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.HTML)
//	fmt.Println(res.CSS)
package compile

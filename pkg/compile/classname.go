package compile

import "strconv"

// classAllocator issues one stable class name per distinct declaration
// set within a single compile call. Equality is structural over the
// canonical form, so two nodes with the same properties in the same
// order share a name. The table is call-scoped; there is no cross-call
// cache.
type classAllocator struct {
	prefix  string
	byCanon map[string]string
	counter int
}

func newClassAllocator(prefix string) *classAllocator {
	return &classAllocator{
		prefix:  prefix,
		byCanon: make(map[string]string),
	}
}

// allocate returns the class name for ds, issuing a new one on first
// sight. Names are "<prefix>1", "<prefix>2", ... in allocation order,
// which keeps them valid CSS identifiers as long as the prefix is one.
func (a *classAllocator) allocate(ds DeclarationSet) string {
	canon := ds.canonical()
	if name, ok := a.byCanon[canon]; ok {
		return name
	}
	a.counter++
	name := a.prefix + strconv.Itoa(a.counter)
	a.byCanon[canon] = name
	return name
}

// Copyright © 2024 The ELPS authors

package form

// Equal reports whether a and b are structurally identical.  Locations are
// ignored.
func Equal(a, b Form) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Nil:
		return true
	case Bool:
		return a.Value == b.(Bool).Value
	case Int:
		return a.Value == b.(Int).Value
	case Float:
		return a.Value == b.(Float).Value
	case String:
		return a.Value == b.(String).Value
	case Keyword:
		return a.Name == b.(Keyword).Name
	case Symbol:
		bs := b.(Symbol)
		return a.Namespace == bs.Namespace && a.Name == bs.Name
	case *List:
		bl := b.(*List)
		if a.bracket != bl.bracket || len(a.elems) != len(bl.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], bl.elems[i]) {
				return false
			}
		}
		return true
	case *Map:
		bm := b.(*Map)
		if len(a.pairs) != len(bm.pairs) {
			return false
		}
		for i := range a.pairs {
			if !Equal(a.pairs[i].Key, bm.pairs[i].Key) || !Equal(a.pairs[i].Value, bm.pairs[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsLiteral reports whether f is a self-evaluating atom.
func IsLiteral(f Form) bool {
	switch f.(type) {
	case Nil, Bool, Int, Float, String, Keyword:
		return true
	default:
		return false
	}
}

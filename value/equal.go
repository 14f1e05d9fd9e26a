package value

// Equal reports deep value equality of two plain trees. Trees consist of
// primitives, map[any]any, []any and Set; primitives are normalized before
// comparison so int and int64 variants of the same number compare equal.
func Equal(a, b any) bool {
	if n, ok := Normalize(a); ok {
		a = n
	}
	if n, ok := Normalize(b); ok {
		b = n
	}

	switch at := a.(type) {
	case map[any]any:
		bt, ok := b.(map[any]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		bn := normKeys(bt)
		for k, av := range at {
			bv, ok := lookup(bn, k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i, av := range at {
			if !Equal(av, bt[i]) {
				return false
			}
		}
		return true
	case Set:
		bt, ok := b.(Set)
		if !ok || len(at) != len(bt) {
			return false
		}
		for e := range at {
			if !bt.Contains(e) {
				return false
			}
		}
		return true
	default:
		if !Comparable(a) || !Comparable(b) {
			return false
		}
		return a == b
	}
}

func lookup(m map[any]any, k any) (any, bool) {
	if n, ok := Normalize(k); ok {
		k = n
	}
	if !Comparable(k) {
		return nil, false
	}
	v, ok := m[k]
	return v, ok
}

// normKeys rewrites a map view with normalized keys, so trees built with
// plain Go literals (int keys) compare equal to replayed trees (int64 keys).
func normKeys(m map[any]any) map[any]any {
	out := make(map[any]any, len(m))
	for k, v := range m {
		if n, ok := Normalize(k); ok {
			k = n
		}
		if !Comparable(k) {
			continue
		}
		out[k] = v
	}
	return out
}

package value

import "reflect"

// Set is the plain, unwrapped form of a set. Elements must be primitive
// (comparable) values; nested containers are not valid set elements.
type Set map[any]struct{}

// NewSet builds a Set from the given elements.
func NewSet(elems ...any) Set {
	s := make(Set, len(elems))
	for _, e := range elems {
		if n, ok := Normalize(e); ok {
			e = n
		}
		s[e] = struct{}{}
	}
	return s
}

// Contains reports whether x is an element of the set.
// Lookups with uncomparable values return false instead of panicking.
func (s Set) Contains(x any) bool {
	if n, ok := Normalize(x); ok {
		x = n
	}
	if !Comparable(x) {
		return false
	}
	_, ok := s[x]
	return ok
}

// Normalize coerces v into its canonical primitive form: all signed integer
// kinds become int64, unsigned kinds become int64 when they fit, float32
// becomes float64. The second result reports whether v is a primitive at all;
// non-primitive values are returned unchanged with ok=false.
func Normalize(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case bool, int64, float64, string:
		return t, true
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint:
		if uint64(t) <= 1<<63-1 {
			return int64(t), true
		}
		return v, false
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t <= 1<<63-1 {
			return int64(t), true
		}
		return v, false
	case float32:
		return float64(t), true
	default:
		return v, false
	}
}

// IsPrimitive reports whether v normalizes to a supported primitive.
func IsPrimitive(v any) bool {
	_, ok := Normalize(v)
	return ok
}

// Comparable reports whether v can be used as a map key without panicking.
func Comparable(v any) bool {
	return v == nil || reflect.TypeOf(v).Comparable()
}

package store

import (
	"fmt"

	"github.com/mutlog/mutlog/value"
)

// WrapFunc recursively wraps a value through the owning store's codec.
type WrapFunc func(v any) (any, error)

// ReprFunc recursively renders a wrapped value as canonical literal text.
type ReprFunc func(v any) (string, error)

// TypeHandler teaches the codec a value type it does not natively support.
// Handlers are consulted strictly in registration order; the first whose
// Supports returns true claims the value. Handlers may read the store but
// must not mutate it.
//
// Wrap converts the value into a wrappable form, using the supplied WrapFunc
// for nested values. Returning the input unchanged keeps the value opaque in
// the tree: it is stored as-is and the handler's Repr renders it whenever a
// log statement needs its literal text. Any literal form a handler emits
// beyond the stock grammar must be resolvable by the replay engine through
// its exposed symbols.
type TypeHandler interface {
	Supports(v any) bool
	Wrap(v any, wrap WrapFunc) (any, error)
	Repr(v any, repr ReprFunc, s *Store) (string, error)
}

// EnumHandler renders the registered members of one named type as qualified
// references, Name.Member. The concrete values survive a round trip provided
// the replay engine exposes the same name and members. Registering the
// members with replay.Symbols.Expose under the same name is the caller's
// responsibility.
type EnumHandler struct {
	name    string
	members map[string]any
	names   map[any]string
}

// NewEnumHandler builds a handler for the named type. Member values must be
// comparable and distinct.
func NewEnumHandler(name string, members map[string]any) *EnumHandler {
	h := &EnumHandler{
		name:    name,
		members: members,
		names:   make(map[any]string, len(members)),
	}
	for member, v := range members {
		h.names[v] = member
	}
	return h
}

// Name returns the qualified type name the handler emits.
func (h *EnumHandler) Name() string { return h.name }

// Members returns the registered member map, for mirroring into replay
// symbols.
func (h *EnumHandler) Members() map[string]any { return h.members }

// Supports claims exactly the registered member values.
func (h *EnumHandler) Supports(v any) bool {
	if v == nil || !value.Comparable(v) {
		return false
	}
	_, ok := h.names[v]
	return ok
}

// Wrap returns the value unchanged, keeping it opaque in the tree.
func (h *EnumHandler) Wrap(v any, _ WrapFunc) (any, error) {
	return v, nil
}

// Repr emits the fully-qualified member reference.
func (h *EnumHandler) Repr(v any, _ ReprFunc, _ *Store) (string, error) {
	member, ok := h.names[v]
	if !ok {
		return "", fmt.Errorf("%w: %v is not a member of %s", ErrUnsupportedType, v, h.name)
	}
	return h.name + "." + member, nil
}

// StringerHandler renders any fmt.Stringer as its string form. Lossy: the
// concrete type is gone on reload and the value comes back as a plain
// string. Documented and intentional; use EnumHandler when the type must
// survive.
type StringerHandler struct{}

func (StringerHandler) Supports(v any) bool {
	_, ok := v.(fmt.Stringer)
	return ok
}

func (StringerHandler) Wrap(v any, _ WrapFunc) (any, error) {
	return v.(fmt.Stringer).String(), nil
}

func (StringerHandler) Repr(v any, repr ReprFunc, _ *Store) (string, error) {
	return repr(v.(fmt.Stringer).String())
}

// FallbackStringHandler claims every value and renders it via fmt. Placed
// last in a chain it guarantees wrap never fails with ErrUnsupportedType, at
// the cost of reducing unknown types to strings.
type FallbackStringHandler struct{}

func (FallbackStringHandler) Supports(any) bool { return true }

func (FallbackStringHandler) Wrap(v any, _ WrapFunc) (any, error) {
	return fmt.Sprintf("%v", v), nil
}

func (FallbackStringHandler) Repr(v any, repr ReprFunc, _ *Store) (string, error) {
	return repr(fmt.Sprintf("%v", v))
}
